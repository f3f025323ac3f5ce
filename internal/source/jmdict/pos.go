package jmdict

import (
	"strings"

	"github.com/heartmarshall/kobo-jadict/internal/domain"
)

// conjugationByPOS maps JMdict part-of-speech entity names to conjugation classes.
var conjugationByPOS = map[string]domain.ConjugationClass{
	"v1":     domain.ConjugationIchidan,
	"v1-s":   domain.ConjugationKureru,
	"v5u":    domain.ConjugationGodanU,
	"v5u-s":  domain.ConjugationGodanU,
	"v5t":    domain.ConjugationGodanTsu,
	"v5r":    domain.ConjugationGodanRu,
	"v5r-i":  domain.ConjugationAru,
	"v5k":    domain.ConjugationGodanKu,
	"v5k-s":  domain.ConjugationIku,
	"v5g":    domain.ConjugationGodanGu,
	"v5n":    domain.ConjugationGodanNu,
	"v5b":    domain.ConjugationGodanBu,
	"v5m":    domain.ConjugationGodanMu,
	"v5s":    domain.ConjugationGodanSu,
	"v5aru":  domain.ConjugationSharu,
	"v4h":    domain.ConjugationGodanHu,
	"vk":     domain.ConjugationKuru,
	"vs-i":   domain.ConjugationSuru,
	"vs-s":   domain.ConjugationSuruSC,
	"vz":     domain.ConjugationIrregularVerb,
	"vn":     domain.ConjugationIrregularVerb,
	"vr":     domain.ConjugationIrregularVerb,
	"v5uru":  domain.ConjugationIrregularVerb,
	"adj-i":  domain.ConjugationIAdjective,
	"adj-ix": domain.ConjugationIrregularIAdj,
}

const (
	posExpression   = "exp"
	miscUsuallyKana = "uk"
)

// classify derives the conjugation class and coarse part of speech from
// the part-of-speech codes of all senses. The first inflecting code wins.
func classify(codes []string) (domain.ConjugationClass, domain.PartOfSpeech) {
	class := domain.ConjugationNone
	adjective, expression := false, false

	for _, c := range codes {
		if cc, ok := conjugationByPOS[c]; ok && class == domain.ConjugationNone {
			class = cc
		}
		if strings.HasPrefix(c, "adj") {
			adjective = true
		}
		if c == posExpression {
			expression = true
		}
	}

	switch {
	case class.Family() != "":
		return class, domain.PartOfSpeechVerb
	case adjective:
		return class, domain.PartOfSpeechAdjective
	case expression:
		return class, domain.PartOfSpeechExpression
	}
	return class, domain.PartOfSpeechOther
}
