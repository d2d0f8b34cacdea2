package catalog

// Document is one app's interaction model as written in YAML.
type Document struct {
	ID           string        `yaml:"id" validate:"required,excludesall=/"`
	Name         string        `yaml:"name"`
	Enumerations []Enumeration `yaml:"enumerations" validate:"dive"`
	Operations   []Operation   `yaml:"operations" validate:"required,min=1,dive"`
	Source       string        `yaml:"-"`
}

type Enumeration struct {
	Kind     string   `yaml:"kind" validate:"required"`
	Name     string   `yaml:"name"`
	Pronouns []string `yaml:"pronouns"`
	Values   []Value  `yaml:"values" validate:"required,min=1,dive"`
}

type Value struct {
	ID    string   `yaml:"id" validate:"required"`
	Terms []string `yaml:"terms"`
}

type Operation struct {
	ID         string      `yaml:"id" validate:"required,excludesall=/"`
	Parameters []Parameter `yaml:"parameters" validate:"dive"`
	Templates  []string    `yaml:"templates" validate:"required,min=1,dive,required"`
	Response   string      `yaml:"response"`
	Results    []Result    `yaml:"results" validate:"dive"`
}

type Parameter struct {
	Name     string `yaml:"name" validate:"required"`
	Type     string `yaml:"type" validate:"required"`
	Optional bool   `yaml:"optional"`
}

// Result declares a value the operation hands back to the conversation history, copied
// from one of its arguments.
type Result struct {
	Name string `yaml:"name" validate:"required"`
	From string `yaml:"from" validate:"required"`
}
