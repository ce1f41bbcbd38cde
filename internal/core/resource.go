package core

// FieldKind is the value type of a resource field.
type FieldKind string

const (
	FieldString FieldKind = "string"
	FieldInt    FieldKind = "int"
	FieldBool   FieldKind = "bool"
)

// Field declares one attribute of an API resource: how it is named on
// the command line, how it is keyed on the wire, and whether it is shown
// in human output.
type Field struct {
	Name     string // flag and column name
	Key      string // wire key
	Short    string // single-letter flag alias, optional
	Kind     FieldKind
	Help     string
	Required bool
	Multiple bool
	Display  bool
}

// Resource is a static description of an API resource.
type Resource struct {
	Name     string
	Endpoint string
	Fields   []Field
}

// DisplayFields returns the fields shown in human output, in declaration order.
func (r Resource) DisplayFields() []Field {
	out := make([]Field, 0, len(r.Fields))
	for _, f := range r.Fields {
		if f.Display {
			out = append(out, f)
		}
	}
	return out
}

// Field looks up a field by name.
func (r Resource) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// WorkflowJobResource describes workflow jobs.
var WorkflowJobResource = Resource{
	Name:     "workflow_job",
	Endpoint: "workflow_jobs/",
	Fields: []Field{
		{Name: "id", Key: "id", Kind: FieldInt, Display: true},
		{
			Name: "workflow-job-template", Key: "workflow_job_template", Short: "W",
			Kind: FieldInt, Required: true, Display: true,
			Help: "workflow job template to launch",
		},
		{
			Name: "extra-vars", Key: "extra_vars", Kind: FieldString, Multiple: true,
			Help: "extra variables: key=value pairs, YAML/JSON, or @file; repeatable, later values win",
		},
		{Name: "created", Key: "created", Kind: FieldString, Display: true},
		{Name: "status", Key: "status", Kind: FieldString, Display: true},
	},
}

// UnifiedJobResource describes the child jobs listed for scorecards.
var UnifiedJobResource = Resource{
	Name:     "unified_job",
	Endpoint: "unified_jobs/",
	Fields: []Field{
		{Name: "name", Key: "name", Kind: FieldString, Display: true},
		{Name: "status", Key: "status", Kind: FieldString, Display: true},
		{Name: "finished", Key: "finished", Kind: FieldString, Display: true},
		{Name: "elapsed", Key: "elapsed", Kind: FieldString, Display: true},
	},
}

// LaunchOverrideFields are the template values a launch request may override.
var LaunchOverrideFields = []Field{
	{Name: "inventory", Key: "inventory", Kind: FieldInt, Help: "inventory to run against"},
	{Name: "limit", Key: "limit", Kind: FieldString, Help: "host pattern limiting the run"},
	{Name: "scm-branch", Key: "scm_branch", Kind: FieldString, Help: "source control branch"},
	{Name: "job-tags", Key: "job_tags", Kind: FieldString, Help: "comma separated tags to run"},
	{Name: "skip-tags", Key: "skip_tags", Kind: FieldString, Help: "comma separated tags to skip"},
}
