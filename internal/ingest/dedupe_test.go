package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanTextStripsEmojiAndCollapsesSpaces(t *testing.T) {
	got := CleanText("Feliz  como una lombriz 😂😂 !!")
	assert.Equal(t, "Feliz como una lombriz!", got)
}

func TestCleanTextCanonicalForms(t *testing.T) {
	assert.Equal(t, "más vale tarde que nunca", CleanText("mas vale tarde que nunca"))
	assert.Equal(t, "el que busca, encuentra", CleanText("el que que busca... encuentra"))
}

func TestIsLikelyDicho(t *testing.T) {
	assert.True(t, IsLikelyDicho("En boca cerrada no entran moscas"))
	assert.True(t, IsLikelyDicho("Más vale toro suelto que lazo débil"))
	assert.False(t, IsLikelyDicho("jajaja"))
	assert.False(t, IsLikelyDicho("ok"))
	assert.False(t, IsLikelyDicho("Nos vemos mañana a las cinco"))
}

func TestIsVariant(t *testing.T) {
	assert.True(t, IsVariant("En boca cerrada no entran moscas", "en boca cerrada no entran moscas!!"))
	assert.True(t, IsVariant("El que canta su mal espanta", "El que canta su mal espanta 🎵"))
	assert.False(t, IsVariant("En boca cerrada no entran moscas", "Feliz como una lombriz"))
}

func TestDedupeFirstWinsAndHonorsExisting(t *testing.T) {
	messages := []Message{
		{LineNum: 1, Text: "En boca cerrada no entran moscas"},
		{LineNum: 2, Text: "en boca cerrada no entran moscas!"},
		{LineNum: 3, Text: "Feliz como una lombriz"},
		{LineNum: 4, Text: "El que canta su mal espanta"},
	}
	existing := []string{"El que canta su mal espanta"}

	unique, duplicates := Dedupe(messages, existing)

	require.Len(t, unique, 2)
	assert.Equal(t, 1, unique[0].LineNum)
	assert.Equal(t, 3, unique[1].LineNum)

	require.Len(t, duplicates, 2)
	assert.Equal(t, 2, duplicates[0].LineNum)
	assert.Equal(t, 4, duplicates[1].LineNum)
}
