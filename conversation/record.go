// Package conversation tracks the per-user dialog state of the bot.
// The store is process-scoped and non-persistent: a restart returns
// every user to the default searching state on their next update.
package conversation

// State identifies which workflow currently owns the user's input.
type State string

const (
	// StateSearching is the default state: free text is treated as a
	// movie lookup code.
	StateSearching State = "searching"
	// StateAdding marks an in-progress movie intake form.
	StateAdding State = "adding"
)

// Step is the cursor of the intake form.
type Step string

const (
	StepTitle    Step = "title"
	StepYear     Step = "year"
	StepGenre    Step = "genre"
	StepLanguage Step = "language"
	StepCode     Step = "code"
	StepVideo    Step = "video"
)

// Draft accumulates the intake form fields. It is owned by exactly one
// Record and is discarded on commit or abort.
type Draft struct {
	Title       string
	Year        int
	Genre       string
	Language    string
	Code        string
	VideoFileID string
}

// Record is the conversation state of a single user. The zero value is
// not valid; use NewRecord or Store.Get, which normalize the default.
type Record struct {
	State State
	// Step and Draft are meaningful only while State is StateAdding.
	Step  Step
	Draft Draft
	// PromptMessageID references the last subscription prompt sent to
	// the user so a fresh prompt can retract it. Zero means none.
	PromptMessageID int
}

// NewRecord returns the default searching record.
func NewRecord() Record {
	return Record{State: StateSearching}
}

// Adding reports whether the record is in the intake workflow.
func (r Record) Adding() bool {
	return r.State == StateAdding
}
