package domain

import "slices"

const DefaultProfile = "foot-hiking"

// Routing profiles understood by the directions provider.
var Profiles = []string{
	"driving-car",
	"driving-hgv",
	"cycling-regular",
	"cycling-road",
	"cycling-mountain",
	"cycling-electric",
	"foot-walking",
	"foot-hiking",
	"wheelchair",
}

func ValidateProfile(p string) error {
	if !slices.Contains(Profiles, p) {
		return ValidationErrorf("unknown profile %q", p)
	}
	return nil
}
