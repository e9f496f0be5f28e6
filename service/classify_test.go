package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"city311/model"
)

func TestClassifyKeywords(t *testing.T) {
	tests := []struct {
		in   string
		want model.IntentTag
	}{
		{"Report a pothole", model.IntentPothole},
		{"there is road damage on elm", model.IntentPothole},
		{"Trash pickup day", model.IntentTrash},
		{"when is recycle collection", model.IntentTrash},
		{"noise complaint about a party", model.IntentNoise},
		{"Streetlight out on my block", model.IntentStreetlight},
		{"the street light is broken", model.IntentStreetlight},
		{"stray dog near the park", model.IntentStrayAnimal},
		{"I lost my cat", model.IntentStrayAnimal},
		{"what are the town hall hours", model.IntentGeneralInfo},
		{"need a permit", model.IntentGeneralInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func TestClassifyTableOrderTieBreak(t *testing.T) {
	// Both pothole and trash keywords present: the earlier table row
	// wins, nothing smarter.
	assert.Equal(t, model.IntentPothole, Classify("pothole next to the trash bin"))
	// Trash row sits above noise.
	assert.Equal(t, model.IntentTrash, Classify("the garbage truck is loud"))
}

func TestClassifyGreetings(t *testing.T) {
	for _, g := range []string{"help", "menu", "hi", "hello", "start", "  MENU  "} {
		assert.Equal(t, model.IntentMenu, Classify(g), g)
	}
	// Greetings match exactly, not as substrings.
	assert.Equal(t, model.IntentUnknown, Classify("hello there"))
}

func TestClassifyAdaptCity(t *testing.T) {
	phrase := "yes please adapt this to my city's Open data and services categories. " +
		"My city's name is Springfield in the state Illinois."
	assert.Equal(t, model.IntentAdaptCity, Classify(phrase))
}

func TestClassifyUnknown(t *testing.T) {
	assert.Equal(t, model.IntentUnknown, Classify("what is the meaning of life"))
	assert.Equal(t, model.IntentUnknown, Classify(""))
}
