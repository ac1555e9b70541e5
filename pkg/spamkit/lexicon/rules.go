package lexicon

import "strings"

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func hasVowel(s string) bool {
	for i := 0; i < len(s); i++ {
		if isVowel(s[i]) || s[i] == 'y' {
			return true
		}
	}
	return false
}

// keepsFinalS reports words whose final "s" is not a plural/3rd-person marker.
func keepsFinalS(w string) bool {
	return strings.HasSuffix(w, "ss") || strings.HasSuffix(w, "us") || strings.HasSuffix(w, "is")
}

// stripPlural handles the "-s"/"-es" endings shared by nouns and verbs.
func stripPlural(w string) (string, bool) {
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y", true
	case strings.HasSuffix(w, "sses"), strings.HasSuffix(w, "ches"),
		strings.HasSuffix(w, "shes"), strings.HasSuffix(w, "xes"),
		strings.HasSuffix(w, "zzes"):
		return w[:len(w)-2], true
	case strings.HasSuffix(w, "s") && !keepsFinalS(w):
		return w[:len(w)-1], true
	}
	return w, false
}

func nounRules(w string) string {
	if len(w) <= 3 {
		return w
	}
	lemma, _ := stripPlural(w)
	return lemma
}

func verbRules(w string) string {
	if len(w) <= 3 {
		return w
	}
	switch {
	case strings.HasSuffix(w, "ied") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "ing") && len(w) >= 5:
		base := w[:len(w)-3]
		if !hasVowel(base) {
			return w // bring, string
		}
		return restoreStem(base)
	case strings.HasSuffix(w, "eed"):
		return w // need, proceed
	case strings.HasSuffix(w, "ed") && len(w) >= 4:
		base := w[:len(w)-2]
		if !hasVowel(base) {
			return w // bed, shed
		}
		return restoreStem(base)
	}
	lemma, _ := stripPlural(w)
	return lemma
}

// restoreStem undoes the spelling changes made before "-ing"/"-ed":
// consonant doubling (flapped -> flap) and silent-e deletion (making -> make).
func restoreStem(base string) string {
	n := len(base)
	if n < 2 {
		return base
	}
	last, prev := base[n-1], base[n-2]

	// doubled final consonant, except the ones English keeps doubled (call, pass, buzz)
	if last == prev && !isVowel(last) && last != 'l' && last != 's' && last != 'z' {
		return base[:n-1]
	}

	switch {
	case last == 'v':
		return base + "e" // having -> have
	case strings.HasSuffix(base, "iz"), strings.HasSuffix(base, "yz"):
		return base + "e" // organized -> organize
	case (last == 'c' || last == 'g') && (prev == 'n' || prev == 'r' || prev == 'd') && !(last == 'g' && prev == 'n'):
		return base + "e" // danced -> dance, charged -> charge, judged -> judge
	case last == 's' && n >= 3 && isVowel(prev) && isVowel(base[n-3]):
		return base + "e" // caused -> cause, released -> release
	case strings.HasSuffix(base, "uir"):
		return base + "e" // required -> require
	case n == 3 && !isVowel(base[0]) && isVowel(base[1]) && !isVowel(last) &&
		last != 'w' && last != 'x' && last != 'y':
		return base + "e" // making -> make, hoped -> hope
	}
	return base
}

func adjectiveRules(w string) string {
	switch {
	case strings.HasSuffix(w, "iest") && len(w) > 5:
		return w[:len(w)-4] + "y"
	case strings.HasSuffix(w, "ier") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "est") && len(w) > 5:
		if base := w[:len(w)-3]; isDoubled(base) {
			return base[:len(base)-1] // biggest -> big
		}
	case strings.HasSuffix(w, "er") && len(w) > 4:
		if base := w[:len(w)-2]; isDoubled(base) {
			return base[:len(base)-1] // hotter -> hot
		}
	}
	return w
}

func isDoubled(s string) bool {
	n := len(s)
	return n >= 2 && s[n-1] == s[n-2] && !isVowel(s[n-1])
}
