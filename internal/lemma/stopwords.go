package lemma

// Closed-class word lists. These are the grammatical classes excluded
// from indexing: prepositions, conjunctions, particles, interjections
// and articles. Open-class words (nouns, verbs, adjectives, adverbs)
// always index, however common; commonness is handled at search time by
// the document-frequency cutoff instead.
//
// Words shorter than MinTokenLength never reach the lookup, but are
// kept in the lists so each class reads complete.

var russianClosedClass = toSet([]string{
	// Предлоги
	"в", "во", "на", "за", "под", "подо", "над", "по", "про", "при",
	"без", "безо", "для", "до", "из", "изо", "от", "ото", "перед",
	"передо", "через", "сквозь", "среди", "между", "около", "возле",
	"вдоль", "вокруг", "против", "ради", "кроме", "помимо", "вместо",
	"вследствие", "насчет", "ввиду", "согласно", "благодаря",

	// Союзы
	"и", "а", "но", "да", "или", "либо", "тоже", "также", "зато",
	"однако", "что", "чтобы", "как", "когда", "пока", "едва", "если",
	"раз", "хотя", "пусть", "будто", "словно", "ибо", "поскольку",
	"причем", "притом", "потому", "поэтому",

	// Частицы
	"не", "ни", "ли", "же", "бы", "ведь", "вот", "вон", "лишь",
	"только", "именно", "даже", "уже", "еще", "разве", "неужели",
	"пускай", "давай", "мол", "дескать", "якобы", "авось",

	// Междометия
	"ах", "ох", "эх", "ай", "ой", "эй", "увы", "ура", "браво", "алло",
	"тьфу", "фу",
})

var englishClosedClass = toSet([]string{
	// Articles
	"a", "an", "the",

	// Prepositions
	"of", "in", "to", "for", "with", "on", "at", "from", "by", "about",
	"into", "through", "during", "before", "after", "above", "below",
	"between", "among", "against", "toward", "towards", "upon", "within",
	"without", "throughout", "despite", "besides", "beyond", "beneath",
	"under", "over", "near", "off", "out", "up", "down", "across",
	"along", "around", "behind", "inside", "outside", "since", "until",

	// Conjunctions
	"and", "or", "but", "nor", "yet", "so", "because", "although",
	"though", "while", "whereas", "unless", "whether", "if", "than",

	// Particles
	"not",

	// Interjections
	"oh", "ah", "wow", "ouch", "hey", "alas", "hurray", "oops", "hmm",
	"huh", "yeah", "yes", "no",
})

// toSet builds a membership set from a word list.
func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
