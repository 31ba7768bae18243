package advisory

import "strings"

// Per-language lookup tables for deterministic advisories. English is
// the fallback for any unknown code.

var titles = map[string]string{
	"en": "Crop Advisory",
	"ml": "കൃഷി നിർദ്ദേശം",
	"hi": "कृषि सलाह",
	"mr": "पिक सल्ला",
	"kn": "ಬೆಳೆ ಸಲಹೆ",
	"gu": "પાક સલાહ",
	"te": "పంట సలహా",
}

var defaultSteps = map[string][]string{
	"en": {"Inspect leaves", "Isolate affected area", "Apply organic pesticide", "Control irrigation"},
	"ml": {"ഇലകൾ പരിശോധിക്കുക", "ബാധിത ഭാഗം വേർതിരിക്കുക", "ജൈവ കീടനാശിനി പ്രയോഗിക്കുക", "വെള്ളം നിയന്ത്രിക്കുക"},
	"hi": {"पत्तों की जाँच करें", "संक्रमित भाग अलग करें", "जैविक कीटनाशक लगाएँ", "सिंचाई नियंत्रित करें"},
	"mr": {"पाने तपासा", "संक्रमित भाग वेगळा करा", "सेंद्रिय कीटकनाशक वापरा", "पाणी नियंत्रित करा"},
	"kn": {"ಎಲೆಗಳನ್ನು ಪರಿಶೀಲಿಸಿ", "ಪೀಡಿತ ಭಾಗವನ್ನು ಬೇರ್ಪಡಿಸಿ", "ಸೇಂದ್ರೀಯ ಕೀಟನಾಶಕ ಬಳಸಿ", "ನೀರಾವರಿ ನಿಯಂತ್ರಿಸಿ"},
	"gu": {"પાંદડા તપાસો", "સંક્રમિત ભાગ અલગ કરો", "સજીવ કીટનાશક લગાવો", "સિંચાઈ નિયંત્રિત કરો"},
	"te": {"ఆకులను పరిశీలించండి", "బాధిత భాగాన్ని వేరుచేయండి", "సేంద్రీయ పురుగుమందు వాడండి", "పారుదల నియంత్రించండి"},
}

var intros = map[string]string{
	"en": "Here are personalized steps for your crop.",
	"ml": "നിങ്ങളുടെ വിളയ്ക്ക് ആവശ്യമായ സഹായ നിർദ്ദേശങ്ങൾ താഴെ നൽകിയിരിക്കുന്നു.",
	"hi": "आपकी फसल के लिए आवश्यक सलाह नीचे दी गई है।",
	"mr": "तुमच्या पिकासाठी आवश्यक पायऱ्या खाली दिलेल्या आहेत.",
	"kn": "ನಿಮ್ಮ ಬೆಳೆಗಾಗಿ ವೈಯಕ್ತಿಕ ಹಂತಗಳು ಕೆಳಗೆ ನೀಡಲಾಗಿದೆ.",
	"gu": "તમારી પાક માટે વ્યક્તિગત પગલાં નીચે આપેલ છે.",
	"te": "మీ పంట కోసం సూచనలు క్రింద ఉన్నాయి.",
}

var unavailable = map[string]string{
	"en": "The advisory service is unavailable right now. Check your connection and try again.",
	"ml": "ഉപദേശ സേവനം ഇപ്പോൾ ലഭ്യമല്ല. കണക്ഷൻ പരിശോധിച്ച് വീണ്ടും ശ്രമിക്കുക.",
	"hi": "सलाह सेवा अभी उपलब्ध नहीं है। कृपया अपना कनेक्शन जांचें और फिर से प्रयास करें।",
	"mr": "सल्ला सेवा सध्या उपलब्ध नाही. कृपया तुमचे कनेक्शन तपासा आणि पुन्हा प्रयत्न करा.",
	"kn": "ಸಲಹಾ ಸೇವೆ ಸದ್ಯ ಲಭ್ಯವಿಲ್ಲ. ನಿಮ್ಮ ಸಂಪರ್ಕವನ್ನು ಪರಿಶೀಲಿಸಿ ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ.",
	"gu": "સલાહ સેવા હમણાં ઉપલબ્ધ નથી. કૃપા કરીને તમારું કનેક્શન તપાસો અને ફરી પ્રયત્ન કરો.",
	"te": "సలహా సేవ ప్రస్తుతం అందుబాటులో లేదు. దయచేసి మీ కనెక్షన్ తనిఖీ చేసి మళ్లీ ప్రయత్నించండి.",
}

var languageNames = map[string]string{
	"en": "English",
	"ml": "Malayalam",
	"hi": "Hindi",
	"mr": "Marathi",
	"kn": "Kannada",
	"gu": "Gujarati",
	"te": "Telugu",
}

// Supported reports whether lang belongs to the fixed language set.
func Supported(lang string) bool {
	_, ok := titles[lang]
	return ok
}

// Languages lists the supported language codes.
func Languages() []string {
	return []string{"en", "ml", "hi", "mr", "kn", "gu", "te"}
}

// Template builds the deterministic advisory for a language. The
// declared code is echoed even when the lookup falls back to English.
func Template(lang, question string) Response {
	text := defaultIntro(lang)
	if q := strings.TrimSpace(question); q != "" {
		text = "Question: " + q + ". " + text
	}
	return Response{
		Title:  defaultTitle(lang),
		Text:   text,
		Steps:  stepsFor(lang),
		Lang:   lang,
		Source: SourceTemplate,
	}
}

// Unavailable builds the localized degraded advisory used when the
// service cannot be reached.
func Unavailable(lang string) Response {
	msg, ok := unavailable[lang]
	if !ok {
		msg = unavailable["en"]
	}
	return Response{
		Title:  defaultTitle(lang),
		Text:   msg,
		Steps:  stepsFor(lang),
		Lang:   lang,
		Source: SourceTemplate,
	}
}

func defaultTitle(lang string) string {
	if title, ok := titles[lang]; ok {
		return title
	}
	return titles["en"]
}

func defaultIntro(lang string) string {
	if intro, ok := intros[lang]; ok {
		return intro
	}
	return intros["en"]
}

func stepsFor(lang string) []string {
	steps, ok := defaultSteps[lang]
	if !ok {
		steps = defaultSteps["en"]
	}
	return append([]string(nil), steps...)
}

func languageName(lang string) string {
	if name, ok := languageNames[lang]; ok {
		return name
	}
	return languageNames["en"]
}
