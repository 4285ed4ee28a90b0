package classify

import (
	"strings"

	"github.com/roach88/complexport/internal/model"
)

// AnnotationBuckets holds the annotation values the exporters render.
type AnnotationBuckets struct {
	// Singletons. When a topic appears more than once the last value wins.
	CuratedComplex string
	Properties     string
	Assembly       string

	Ligands     []string
	Diseases    []string
	Agonists    []string
	Antagonists []string
	Comments    []string
}

// ClassifyAnnotations switches on each annotation's topic short name and
// collects values into named buckets. Unknown topics are ignored, and
// annotations with a nil value are skipped.
func ClassifyAnnotations(annotations []model.Annotation) AnnotationBuckets {
	var b AnnotationBuckets

	for _, a := range annotations {
		if a.Value == nil {
			continue
		}
		value := *a.Value

		switch strings.ToLower(strings.TrimSpace(a.Topic.ShortName)) {
		case model.TopicCuratedComplex:
			b.CuratedComplex = value
		case model.TopicProperties:
			b.Properties = value
		case model.TopicAssembly:
			b.Assembly = value
		case model.TopicLigand:
			b.Ligands = append(b.Ligands, value)
		case model.TopicDisease:
			b.Diseases = append(b.Diseases, value)
		case model.TopicAgonist:
			b.Agonists = append(b.Agonists, value)
		case model.TopicAntagonist:
			b.Antagonists = append(b.Antagonists, value)
		case model.TopicComment:
			b.Comments = append(b.Comments, value)
		}
	}

	return b
}
