package lexicon

// builtinExceptions lists common English irregular forms.
var builtinExceptions = map[POS]map[string]string{
	Verb: {
		"am": "be", "is": "be", "are": "be", "was": "be", "were": "be", "been": "be", "being": "be",
		"has": "have", "had": "have", "having": "have",
		"does": "do", "did": "do", "done": "do", "doing": "do",
		"goes": "go", "went": "go", "gone": "go",
		"agreed": "agree", "freed": "free",
		"ate": "eat", "eaten": "eat",
		"became": "become",
		"began": "begin", "begun": "begin",
		"bought": "buy",
		"broke": "break", "broken": "break",
		"brought": "bring",
		"built": "build",
		"came": "come",
		"caught": "catch",
		"chose": "choose", "chosen": "choose",
		"drove": "drive", "driven": "drive",
		"fell": "fall", "fallen": "fall",
		"felt": "feel",
		"flew": "fly", "flown": "fly",
		"forgot": "forget", "forgotten": "forget",
		"fought": "fight",
		"found": "find",
		"gave": "give", "given": "give",
		"got": "get", "gotten": "get",
		"grew": "grow", "grown": "grow",
		"heard": "hear",
		"held": "hold",
		"kept": "keep",
		"knew": "know", "known": "know",
		"led": "lead",
		"left": "leave",
		"lost": "lose",
		"made": "make",
		"met": "meet",
		"paid": "pay",
		"ran": "run",
		"said": "say",
		"sat": "sit",
		"saw": "see", "seen": "see",
		"sent": "send",
		"slept": "sleep",
		"sold": "sell",
		"sought": "seek",
		"spent": "spend",
		"spoke": "speak", "spoken": "speak",
		"stood": "stand",
		"taught": "teach",
		"took": "take", "taken": "take",
		"told": "tell",
		"thought": "think",
		"understood": "understand",
		"used": "use", "using": "use",
		"won": "win",
		"wrote": "write", "written": "write", "writing": "write",
	},
	Noun: {
		"children": "child",
		"feet":     "foot",
		"geese":    "goose",
		"halves":   "half",
		"knives":   "knife",
		"leaves":   "leaf",
		"lives":    "life",
		"men":      "man",
		"mice":     "mouse",
		"people":   "person",
		"teeth":    "tooth",
		"wives":    "wife",
		"women":    "woman",
	},
	Adjective: {
		"better": "good", "best": "good",
		"worse": "bad", "worst": "bad",
		"farther": "far", "farthest": "far",
		"further": "far", "furthest": "far",
		"elder": "old", "eldest": "old",
	},
	Adverb: {
		"better": "well", "best": "well",
		"worse": "badly", "worst": "badly",
	},
}

// builtinInvariant lists words the suffix rules would otherwise mangle.
var builtinInvariant = []string{
	"always", "anything", "during", "evening", "everything", "hundred",
	"morning", "news", "nothing", "perhaps", "series", "something", "species",
	"thing", "unless",
}
