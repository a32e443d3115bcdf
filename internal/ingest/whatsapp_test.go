package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleChat = `7/15/24, 3:42 PM - Maria: En boca cerrada no entran moscas
7/15/24, 3:45 PM - Abuela: El que canta su mal espanta
y el que llora su mal empeora
7/16/24, 9:05 AM - Maria changed the group description
7/16/24, 11:30 AM - Carlos: Feliz como una lombriz
`

func TestParseChat(t *testing.T) {
	messages, err := ParseChat(strings.NewReader(sampleChat))
	require.NoError(t, err)
	require.Len(t, messages, 4)

	first := messages[0]
	assert.Equal(t, "Maria", first.Contributor)
	assert.Equal(t, "En boca cerrada no entran moscas", first.Text)
	assert.Equal(t, time.Date(2024, 7, 15, 15, 42, 0, 0, time.UTC), first.Timestamp)
}

func TestParseChatFoldsContinuationLines(t *testing.T) {
	messages, err := ParseChat(strings.NewReader(sampleChat))
	require.NoError(t, err)

	assert.Equal(t, "El que canta su mal espanta y el que llora su mal empeora", messages[1].Text)
}

func TestParseChatSystemMessage(t *testing.T) {
	messages, err := ParseChat(strings.NewReader(sampleChat))
	require.NoError(t, err)

	system := messages[2]
	assert.Empty(t, system.Text)
	assert.Equal(t, "Maria changed the group description", system.Contributor)
}

func TestParseChatNarrowNoBreakSpace(t *testing.T) {
	chat := "7/15/24, 3:42 PM - Maria: A buena hambre no hay mal pan\n"
	messages, err := ParseChat(strings.NewReader(chat))
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "A buena hambre no hay mal pan", messages[0].Text)
}

func TestParseChatAMPMConversion(t *testing.T) {
	chat := "1/2/24, 12:05 AM - A: medianoche\n" +
		"1/2/24, 12:30 PM - A: mediodía\n" +
		"1/2/24, 1:00 PM - A: tarde\n"
	messages, err := ParseChat(strings.NewReader(chat))
	require.NoError(t, err)
	require.Len(t, messages, 3)

	assert.Equal(t, 0, messages[0].Timestamp.Hour())
	assert.Equal(t, 12, messages[1].Timestamp.Hour())
	assert.Equal(t, 13, messages[2].Timestamp.Hour())
}

func TestParseChatSkipsLeadingContinuation(t *testing.T) {
	chat := "orphan line without a header\n7/15/24, 3:42 PM - Maria: hola\n"
	messages, err := ParseChat(strings.NewReader(chat))
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hola", messages[0].Text)
}

func TestFilterAfterIsStrict(t *testing.T) {
	cutoff := time.Date(2024, 7, 15, 15, 45, 0, 0, time.UTC)
	messages, err := ParseChat(strings.NewReader(sampleChat))
	require.NoError(t, err)

	kept := FilterAfter(messages, cutoff)
	require.Len(t, kept, 2)
	for _, m := range kept {
		assert.True(t, m.Timestamp.After(cutoff))
	}
}
