package input

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// EditorPage is the page an editor host has open.
type EditorPage string

const (
	PageThings                         EditorPage = "things"
	PageThingDependencies              EditorPage = "thing_dependencies"
	PageThingInteractions              EditorPage = "thing_interactions"
	PageProcesses                      EditorPage = "processes"
	PageTags                           EditorPage = "tags"
	PageThemeStyleAliases              EditorPage = "theme_style_aliases"
	PageThemeBaseStyles                EditorPage = "theme_base_styles"
	PageThemeProcessStepSelectedStyles EditorPage = "theme_process_step_selected_styles"
	PageThemeTypesStyles               EditorPage = "theme_types_styles"
	PageThemeDependenciesStyles        EditorPage = "theme_dependencies_styles"
	PageThemeTagsFocus                 EditorPage = "theme_tags_focus"
	PageText                           EditorPage = "text"
)

// Pages lists every page in tab order.
var Pages = []EditorPage{
	PageThings, PageThingDependencies, PageThingInteractions, PageProcesses, PageTags,
	PageThemeStyleAliases, PageThemeBaseStyles, PageThemeProcessStepSelectedStyles,
	PageThemeTypesStyles, PageThemeDependenciesStyles, PageThemeTagsFocus, PageText,
}

// UnmarshalText accepts the known page names.
func (p *EditorPage) UnmarshalText(b []byte) error {
	for _, known := range Pages {
		if string(b) == string(known) {
			*p = known
			return nil
		}
	}
	return fmt.Errorf("unknown editor page %q", b)
}

// EditorState is what a host persists to restore an editing session.
type EditorState struct {
	Page         EditorPage `yaml:"page"`
	InputDiagram Diagram    `yaml:"input_diagram"`
}

// ParseEditorState decodes s permissively: blank input yields the default
// state, and a bare diagram document is accepted as the things page.
func ParseEditorState(s string) (*EditorState, error) {
	if strings.TrimSpace(s) == "" {
		return &EditorState{Page: PageThings}, nil
	}

	var st EditorState
	dec := yaml.NewDecoder(strings.NewReader(s))
	dec.KnownFields(true)
	if err := dec.Decode(&st); err == nil {
		if st.Page == "" {
			st.Page = PageThings
		}
		if err := st.InputDiagram.Validate(); err != nil {
			return nil, err
		}
		return &st, nil
	}

	d, err := Parse([]byte(s))
	if err != nil {
		return nil, err
	}
	return &EditorState{Page: PageThings, InputDiagram: *d}, nil
}

// MarshalEditorState encodes st as YAML.
func MarshalEditorState(st *EditorState) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(st); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
