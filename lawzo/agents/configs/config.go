package configs

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/magiconair/properties"
)

//go:embed assistant.properties
var defaultProperties []byte

var documentTypes = []string{"contract", "will", "lease", "affidavit"}

type Prompts struct {
	Relevance      string
	RAG            string
	Greeting       string
	Rewrite        string
	Translate      string
	FollowUps      string
	FollowUpsShort string
	Suggestions    string
	SummarizeChunk string
	Analysis       string
}

type AssistantConfig struct {
	AssistantName string
	AssistantRole string

	AcknowledgmentResponse string
	HelpResponse           string

	GreetingKeywords       []string
	AcknowledgmentKeywords []string
	HelpKeywords           []string

	Prompts Prompts

	// keyed by lower-case document type
	AnalysisFocus map[string]string
}

// LoadConfig reads the assistant properties from path, or the embedded
// default when path is empty.
func LoadConfig(path string) (*AssistantConfig, error) {
	var (
		props *properties.Properties
		err   error
	)
	if path == "" {
		props, err = properties.Load(defaultProperties, properties.UTF8)
	} else {
		props, err = properties.LoadFile(path, properties.UTF8)
	}
	if err != nil {
		return nil, fmt.Errorf("load assistant properties: %w", err)
	}
	// prompts use {name} placeholders, never ${...}
	props.DisableExpansion = true

	// helper to parse comma-separated values
	parseSlice := func(val string) []string {
		if val == "" {
			return []string{}
		}
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	cfg := &AssistantConfig{
		AssistantName:          props.GetString("assistant_name", "Lawzo"),
		AssistantRole:          props.GetString("assistant_role", "a legal assistant"),
		AcknowledgmentResponse: props.GetString("response_acknowledgment", ""),
		HelpResponse:           props.GetString("response_help", ""),
		GreetingKeywords:       parseSlice(props.GetString("keywords_greeting", "")),
		AcknowledgmentKeywords: parseSlice(props.GetString("keywords_acknowledgment", "")),
		HelpKeywords:           parseSlice(props.GetString("keywords_help", "")),
		Prompts: Prompts{
			Relevance:      props.GetString("prompt_relevance", ""),
			RAG:            props.GetString("prompt_rag", ""),
			Greeting:       props.GetString("prompt_greeting", ""),
			Rewrite:        props.GetString("prompt_rewrite", ""),
			Translate:      props.GetString("prompt_translate", ""),
			FollowUps:      props.GetString("prompt_followups", ""),
			FollowUpsShort: props.GetString("prompt_followups_simple", ""),
			Suggestions:    props.GetString("prompt_suggestions", ""),
			SummarizeChunk: props.GetString("prompt_summarize_chunk", ""),
			Analysis:       props.GetString("prompt_analysis", ""),
		},
		AnalysisFocus: make(map[string]string),
	}

	for _, dt := range documentTypes {
		if v := props.GetString("analysis_focus_"+dt, ""); v != "" {
			cfg.AnalysisFocus[dt] = v
		}
	}

	if missing := cfg.missingPrompts(); len(missing) > 0 {
		return nil, fmt.Errorf("assistant properties missing prompts: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func (c *AssistantConfig) missingPrompts() []string {
	var missing []string
	check := []struct{ key, val string }{
		{"prompt_relevance", c.Prompts.Relevance},
		{"prompt_rag", c.Prompts.RAG},
		{"prompt_greeting", c.Prompts.Greeting},
		{"prompt_rewrite", c.Prompts.Rewrite},
		{"prompt_translate", c.Prompts.Translate},
		{"prompt_followups", c.Prompts.FollowUps},
		{"prompt_followups_simple", c.Prompts.FollowUpsShort},
		{"prompt_suggestions", c.Prompts.Suggestions},
		{"prompt_summarize_chunk", c.Prompts.SummarizeChunk},
		{"prompt_analysis", c.Prompts.Analysis},
	}
	for _, p := range check {
		if strings.TrimSpace(p.val) == "" {
			missing = append(missing, p.key)
		}
	}
	return missing
}

// Fill substitutes {name} placeholders in tmpl. kv holds name, value pairs.
func Fill(tmpl string, kv ...string) string {
	pairs := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, "{"+kv[i]+"}", kv[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
