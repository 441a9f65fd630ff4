package docmodel

import (
	ferrors "git.home.luguber.info/inful/mdimages/internal/foundation/errors"
	"git.home.luguber.info/inful/mdimages/internal/foundation/normalization"
)

// Policy selects which image files count as a document's sources.
type Policy string

const (
	// PolicyExplicit selects exactly the referenced files.
	PolicyExplicit Policy = "explicit"
	// PolicySource selects the preferred variant of each referenced file.
	PolicySource Policy = "source"
	// PolicyBoth selects the union of explicit and source.
	PolicyBoth Policy = "both"
	// PolicyAll selects every existing variant of each referenced file.
	PolicyAll Policy = "all"
)

var policyNormalizer = normalization.NewEnumNormalizer("selection", map[string]Policy{
	"explicit": PolicyExplicit,
	"source":   PolicySource,
	"both":     PolicyBoth,
	"all":      PolicyAll,
}, PolicyExplicit)

// ParsePolicy parses a policy name, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	p, err := policyNormalizer.NormalizeWithValidation(s)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryValidation, "invalid selection policy").
			WithContext("selection", s).
			Fatal().
			Build()
	}
	return p, nil
}

// PolicyNames lists the accepted policy names.
func PolicyNames() []string {
	return policyNormalizer.ValidValues()
}
