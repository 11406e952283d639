package env

type Args struct {
	Test       *bool
	Verbose    *bool
	Speedon    *bool
	Diron      *bool
	Tideon     *bool
	AtmEnabled *bool
	StationID  *string
	TidePort   *string
	VanePort   *string
	LoraPort   *string
}
