package domain

const (
	RunKindCreate = "create"
	RunKindUpdate = "update"
	RunKindChat   = "chat"
)

const (
	RunStateRunning   = "running"
	RunStateCompleted = "completed"
	RunStateFailed    = "failed"
)

type Tool struct {
	Title      string `json:"title"`
	Href       string `json:"href"`
	Template   string `json:"template"`
	SourceFile string `json:"python_file"`
}

type CodePair struct {
	PythonCode string `json:"python_code"`
	HTMLCode   string `json:"html_code"`
}

type GeneratedCode struct {
	Pair        CodePair
	PipInstalls []string
}

type GenerationRun struct {
	Id        string `json:"id"`
	ToolName  string `json:"tool_name"`
	Kind      string `json:"kind"`
	State     string `json:"state"`
	StartedAt string `json:"started_at"`
}
