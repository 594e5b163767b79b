package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the mapping for book documents: English text
// fields for title, authors and prose, keyword fields for filters, and the
// first publication year as a number.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	// Names are not stemmed.
	authorsFieldMapping := bleve.NewTextFieldMapping()
	authorsFieldMapping.Analyzer = simple.Name
	authorsFieldMapping.Store = true
	authorsFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("authors", authorsFieldMapping)

	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = en.AnalyzerName
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	sentenceFieldMapping := bleve.NewTextFieldMapping()
	sentenceFieldMapping.Analyzer = en.AnalyzerName
	sentenceFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("first_sentence", sentenceFieldMapping)

	subjectsFieldMapping := bleve.NewTextFieldMapping()
	subjectsFieldMapping.Analyzer = en.AnalyzerName
	subjectsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("subjects", subjectsFieldMapping)

	slugsFieldMapping := bleve.NewTextFieldMapping()
	slugsFieldMapping.Analyzer = keyword.Name
	slugsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("subject_slugs", slugsFieldMapping)

	keyFieldMapping := bleve.NewTextFieldMapping()
	keyFieldMapping.Analyzer = keyword.Name
	keyFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("key", keyFieldMapping)

	proposerFieldMapping := bleve.NewTextFieldMapping()
	proposerFieldMapping.Analyzer = keyword.Name
	proposerFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("proposer", proposerFieldMapping)

	yearFieldMapping := bleve.NewNumericFieldMapping()
	yearFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("year", yearFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}
