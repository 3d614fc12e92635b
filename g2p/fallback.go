package g2p

import "strings"

// fallbackDigraphs maps two-letter spellings to phonemes, tried before the
// single-letter rules.
var fallbackDigraphs = map[string]string{
	"th": "TH",
	"sh": "SH",
	"ch": "CH",
	"ng": "NG",
	"ph": "F",
	"wh": "W",
	"ck": "K",
	"ee": "IY1",
	"ea": "IY1",
	"oo": "UW1",
	"ou": "AW1",
	"ow": "OW1",
	"ai": "EY1",
	"ay": "EY1",
	"oi": "OY1",
	"oy": "OY1",
}

// fallback produces a best-guess ARPABET sequence for an out-of-vocabulary
// word with letter-to-sound rules. It is an approximation, not a
// pronunciation model: good enough to place a word's syllables, not to
// read it aloud.
func fallback(word string) []string {
	word = strings.ToLower(word)
	runes := []rune(word)
	var phonemes []string

	for i := 0; i < len(runes); i++ {
		if i+1 < len(runes) {
			if ph, ok := fallbackDigraphs[string(runes[i:i+2])]; ok {
				phonemes = append(phonemes, ph)
				i++
				continue
			}
		}

		switch runes[i] {
		case 'a':
			phonemes = append(phonemes, "AE1")
		case 'b':
			phonemes = append(phonemes, "B")
		case 'c':
			// c before e/i/y softens to S
			if i+1 < len(runes) && (runes[i+1] == 'e' || runes[i+1] == 'i' || runes[i+1] == 'y') {
				phonemes = append(phonemes, "S")
			} else {
				phonemes = append(phonemes, "K")
			}
		case 'd':
			phonemes = append(phonemes, "D")
		case 'e':
			// silent e at word end
			if i != len(runes)-1 || len(phonemes) == 0 {
				phonemes = append(phonemes, "EH1")
			}
		case 'f':
			phonemes = append(phonemes, "F")
		case 'g':
			phonemes = append(phonemes, "G")
		case 'h':
			phonemes = append(phonemes, "HH")
		case 'i':
			phonemes = append(phonemes, "IH1")
		case 'j':
			phonemes = append(phonemes, "JH")
		case 'k':
			phonemes = append(phonemes, "K")
		case 'l':
			phonemes = append(phonemes, "L")
		case 'm':
			phonemes = append(phonemes, "M")
		case 'n':
			phonemes = append(phonemes, "N")
		case 'o':
			phonemes = append(phonemes, "AA1")
		case 'p':
			phonemes = append(phonemes, "P")
		case 'q':
			phonemes = append(phonemes, "K")
		case 'r':
			phonemes = append(phonemes, "R")
		case 's':
			phonemes = append(phonemes, "S")
		case 't':
			phonemes = append(phonemes, "T")
		case 'u':
			phonemes = append(phonemes, "AH1")
		case 'v':
			phonemes = append(phonemes, "V")
		case 'w':
			phonemes = append(phonemes, "W")
		case 'x':
			phonemes = append(phonemes, "K", "S")
		case 'y':
			if len(phonemes) == 0 {
				phonemes = append(phonemes, "Y")
			} else {
				phonemes = append(phonemes, "IY1")
			}
		case 'z':
			phonemes = append(phonemes, "Z")
		}
	}

	if len(phonemes) == 0 {
		phonemes = append(phonemes, "AH0")
	}
	return phonemes
}
