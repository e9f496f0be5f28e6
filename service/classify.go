package service

import (
	"city311/model"
	"city311/utils"
)

// adaptTrigger is the fixed phrase that re-targets the agent at
// another city. Matched as a substring so surrounding pleasantries
// ("yes please ... open data and services categories") still trigger.
const adaptTrigger = "adapt this to my city"

type intentRule struct {
	intent   model.IntentTag
	keywords []string
}

// intentRules is evaluated top to bottom, first match wins. Keywords
// are substrings of the normalized text, so overlaps between intents
// are resolved purely by this order.
var intentRules = []intentRule{
	{model.IntentPothole, []string{"pothole", "road hole", "asphalt", "road damage", "street crack"}},
	{model.IntentTrash, []string{"trash", "garbage", "recycle", "pickup", "collection", "bin"}},
	{model.IntentNoise, []string{"noise", "loud", "party", "music", "construction noise"}},
	{model.IntentStreetlight, []string{"streetlight", "light out", "lamp", "street light"}},
	{model.IntentStrayAnimal, []string{"stray", "dog", "cat", "animal control", "lost pet"}},
	{model.IntentGeneralInfo, []string{"info", "information", "hours", "phone", "contact", "permit", "parks"}},
}

var greetings = []string{"help", "menu", "hi", "hello", "start"}

// Classify maps an utterance to an intent tag. Never fails: anything
// unmatched is IntentUnknown.
func Classify(raw string) model.IntentTag {
	t := utils.Normalize(raw)

	if utils.ContainsAny(t, []string{adaptTrigger}) {
		return model.IntentAdaptCity
	}
	for _, rule := range intentRules {
		if utils.ContainsAny(t, rule.keywords) {
			return rule.intent
		}
	}
	for _, g := range greetings {
		if t == g {
			return model.IntentMenu
		}
	}
	return model.IntentUnknown
}
