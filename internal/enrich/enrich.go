// Package enrich holds the hardcoded lookup tables that annotate known
// dichos with translations, semantic keywords, cultural context and tone.
// Unknown dichos get explicit "needed" placeholders so a later enrichment
// pass can find them.
package enrich

import (
	"fmt"
	"strings"

	"yashubustudio/dichos/dichos"
)

// Record is the full enrichment for one dicho.
type Record struct {
	Dicho           string
	Translation     string
	Keywords        []string
	CulturalContext string
	EmotionTone     string
}

// Enrich annotates one dicho from the lookup tables, falling back to
// placeholders for texts the tables do not know.
func Enrich(text string) Record {
	key := dichos.NormalizeText(text)
	rec := Record{Dicho: key}
	if t, ok := translations[key]; ok {
		rec.Translation = t
	} else {
		rec.Translation = fmt.Sprintf("Translation needed for: %s", key)
	}
	if kw, ok := keywords[key]; ok {
		rec.Keywords = splitKeywords(kw)
	}
	if cc, ok := culturalContexts[key]; ok {
		rec.CulturalContext = cc
	} else {
		rec.CulturalContext = fmt.Sprintf("Cultural context needed for: %s", key)
	}
	if tone, ok := emotionTones[key]; ok {
		rec.EmotionTone = tone
	}
	return rec
}

// Known reports whether the tables carry keywords for the dicho. Entries
// without keywords cannot participate in category discovery.
func Known(text string) bool {
	_, ok := keywords[dichos.NormalizeText(text)]
	return ok
}

func splitKeywords(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var translations = map[string]string{
	"Le salió el tiro por la culata":                     "The shot came out through the butt (backfired)",
	"más vale toro suelto que lazo debil":                "Better a loose bull than a weak rope",
	"Hablando del rey de Roma y el que se asoma":         "Speaking of the king of Rome and the one who shows up",
	"A buena hambre no hay mal pan":                      "To good hunger there is no bad bread",
	"El Diablo hablando de escapularios":                 "The Devil talking about scapulars",
	"Agua que no has de beber déjala correr":             "Water you won't drink, let it run",
	"Arrieros somos y en el camino andamos":              "We are muleteers and we walk the path",
	"Luz de la calle, oscuridad de la casa":              "Light of the street, darkness of the house",
	"El que canta su mal espanta":                        "He who sings scares away his troubles",
	"El que llora su mal empeora":                        "He who cries makes his troubles worse",
	"Feliz como una lombriz":                             "Happy as a worm",
	"A dios rogando y con el mazo dando":                 "Praying to God and hitting with the mallet",
	"Por un oído entra y otro le sale":                   "It enters through one ear and leaves through the other",
	"No tiene pelos en la lengua":                        "He doesn't have hairs on his tongue",
	"En boca cerrada no entran moscas":                   "In a closed mouth, flies don't enter",
	"Llego por lana y salió trasquilado":                 "He came for wool and left sheared",
	"Se quedó durmiendo en los laureles":                 "He stayed sleeping on the laurels",
	"Los lunes, ni las gallinas ponen":                   "On Mondays, not even the hens lay",
	"No hay peor cuña que la del mismo palo":             "There is no worse wedge than that of the same stick",
	"Nunca falta un borracho en una vela":                "There is never a drunk missing at a candle",
	"Come santos y caga diablos":                         "Eats saints and shits devils",
	"No hay peor sordo que el que usa walkman":           "There is no worse deaf person than one who uses a walkman",
	"Más metido que la pobreza":                          "More involved than poverty",
	"Llovieron perros y gatos y árboles y sombrillas":    "It rained dogs and cats and trees and umbrellas",
	"El que por su gusto muere, que lo entierren parado": "He who dies by his own choice, let them bury him standing",
}

var keywords = map[string]string{
	"Le salió el tiro por la culata":                     "backfire, failure, consequences, plans, mistakes",
	"más vale toro suelto que lazo debil":                "freedom, choice, risk, independence, strength",
	"Hablando del rey de Roma y el que se asoma":         "coincidence, timing, appearance, conversation",
	"A buena hambre no hay mal pan":                      "hunger, food, necessity, satisfaction, basic needs",
	"El Diablo hablando de escapularios":                 "hypocrisy, advice, practice, contradiction, religion",
	"Agua que no has de beber déjala correr":             "interference, boundaries, respect, non-involvement",
	"Arrieros somos y en el camino andamos":              "solidarity, journey, shared experience, travelers",
	"Luz de la calle, oscuridad de la casa":              "appearance, reality, public, private, hypocrisy",
	"El que canta su mal espanta":                        "singing, happiness, troubles, music, therapy",
	"El que llora su mal empeora":                        "crying, problems, dwelling, sadness, worsening",
	"Feliz como una lombriz":                             "happiness, carefree, contentment, nature, simplicity",
	"A dios rogando y con el mazo dando":                 "prayer, action, faith, work, religion",
	"Por un oído entra y otro le sale":                   "attention, memory, listening, information, retention",
	"No tiene pelos en la lengua":                        "honesty, directness, speaking, courage, truth",
	"En boca cerrada no entran moscas":                   "silence, wisdom, trouble, speaking, caution",
	"Llego por lana y salió trasquilado":                 "loss, gain, wool, shearing, unexpected outcomes",
	"Se quedó durmiendo en los laureles":                 "rest, achievements, complacency, laurels, past success",
	"Los lunes, ni las gallinas ponen":                   "mondays, productivity, difficulty, work, eggs",
	"No hay peor cuña que la del mismo palo":             "family, relationships, hurt, betrayal, closeness",
	"Nunca falta un borracho en una vela":                "parties, drunks, disruption, social events",
	"Come santos y caga diablos":                         "hypocrisy, appearance, saints, devils, contradiction",
	"No hay peor sordo que el que usa walkman":           "deafness, listening, choice, technology, old reference",
	"Más metido que la pobreza":                          "nosy, involved, interference, poverty, social issues",
	"Llovieron perros y gatos y árboles y sombrillas":    "rain, weather, exaggeration, intensity, nature",
	"El que por su gusto muere, que lo entierren parado": "choice, consequences, responsibility, death, standing",
}

var culturalContexts = map[string]string{
	"Le salió el tiro por la culata":                     "Common in Costa Rica and Central America. Reflects the agricultural and rural culture where firearms were common.",
	"más vale toro suelto que lazo debil":                "Rural Costa Rican wisdom about livestock management.",
	"Hablando del rey de Roma y el que se asoma":         "Universal Spanish saying, popular throughout Latin America.",
	"A buena hambre no hay mal pan":                      "Universal Spanish saying about hunger and food.",
	"El Diablo hablando de escapularios":                 "Religious reference common in Catholic Latin America.",
	"Agua que no has de beber déjala correr":             "Universal Spanish wisdom about non-interference.",
	"Arrieros somos y en el camino andamos":              "Rural Costa Rican saying about muleteers and mule transport.",
	"Luz de la calle, oscuridad de la casa":              "Universal Spanish saying about public vs. private behavior.",
	"El que canta su mal espanta":                        "Universal Spanish saying about music and happiness.",
	"El que llora su mal empeora":                        "Universal Spanish wisdom about dwelling on problems.",
	"Feliz como una lombriz":                             "Costa Rican expression about happiness and simple living.",
	"A dios rogando y con el mazo dando":                 "Religious reference common in Catholic Latin America.",
	"Por un oído entra y otro le sale":                   "Universal Spanish saying about not paying attention.",
	"No tiene pelos en la lengua":                        "Universal Spanish saying about honesty.",
	"En boca cerrada no entran moscas":                   "Universal Spanish wisdom about silence.",
	"Llego por lana y salió trasquilado":                 "Rural Costa Rican saying about unexpected outcomes.",
	"Se quedó durmiendo en los laureles":                 "Universal Spanish saying about complacency.",
	"Los lunes, ni las gallinas ponen":                   "Costa Rican expression about unproductive Mondays.",
	"No hay peor cuña que la del mismo palo":             "Universal Spanish saying about family relationships.",
	"Nunca falta un borracho en una vela":                "Costa Rican saying about parties.",
	"Come santos y caga diablos":                         "Costa Rican expression about hypocrisy.",
	"No hay peor sordo que el que usa walkman":           "Costa Rican saying with an outdated technology reference.",
	"Más metido que la pobreza":                          "Costa Rican expression about being nosy.",
	"Llovieron perros y gatos y árboles y sombrillas":    "Costa Rican exaggeration of heavy tropical rain.",
	"El que por su gusto muere, que lo entierren parado": "Universal Spanish saying about consequences.",
}

var emotionTones = map[string]string{
	"Le salió el tiro por la culata":                     "ironic, humorous, cautionary",
	"más vale toro suelto que lazo debil":                "wise, philosophical, practical",
	"Hablando del rey de Roma y el que se asoma":         "amused, coincidental, light",
	"A buena hambre no hay mal pan":                      "practical, accepting, content",
	"El Diablo hablando de escapularios":                 "ironic, critical, humorous",
	"Agua que no has de beber déjala correr":             "wise, cautionary, peaceful",
	"Arrieros somos y en el camino andamos":              "solidary, philosophical, accepting",
	"Luz de la calle, oscuridad de la casa":              "critical, observant, wise",
	"El que canta su mal espanta":                        "encouraging, positive, therapeutic",
	"El que llora su mal empeora":                        "cautionary, practical, wise",
	"Feliz como una lombriz":                             "joyful, carefree, content",
	"A dios rogando y con el mazo dando":                 "practical, faithful, determined",
	"Por un oído entra y otro le sale":                   "frustrated, exasperated, resigned",
	"No tiene pelos en la lengua":                        "admiring, respectful, direct",
	"En boca cerrada no entran moscas":                   "cautionary, wise, restrained",
	"Llego por lana y salió trasquilado":                 "ironic, cautionary, rueful",
	"Se quedó durmiendo en los laureles":                 "critical, cautionary, dry",
	"Los lunes, ni las gallinas ponen":                   "resigned, humorous, weary",
	"No hay peor cuña que la del mismo palo":             "bitter, observant, wise",
	"Nunca falta un borracho en una vela":                "amused, resigned, social",
	"Come santos y caga diablos":                         "critical, coarse, humorous",
	"No hay peor sordo que el que usa walkman":           "exasperated, humorous, dated",
	"Más metido que la pobreza":                          "critical, humorous, exasperated",
	"Llovieron perros y gatos y árboles y sombrillas":    "exaggerated, dramatic, humorous",
	"El que por su gusto muere, que lo entierren parado": "firm, accepting, practical",
}
