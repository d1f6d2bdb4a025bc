// Package trace parses the startup trace log written by Vim and Neovim when
// invoked with the --startuptime flag.
//
// Two line grammars are recognized, each matched independently against every
// (trimmed) line of input:
//
//	event line:        <clock> <delta>: <text>
//	attribution line:  <clock> <delta> <elapsed>: sourcing <identifier>
//
// Every recognized line contributes its clock value as a candidate for the
// run's total duration, which is the maximum clock seen. Attribution lines
// additionally append their elapsed time to the identifier's list of
// durations. Any other line is ignored, so headers and diagnostic text in the
// log never cause a parse failure.
//
// # Usage
//
//	s, err := trace.ParseString(text)
//	if err != nil {
//		return err
//	}
//	for _, c := range s.Components {
//		fmt.Println(c.Identifier, c.Sum())
//	}
//
// A [Cache] memoizes parse results by the content of the log, so identical
// logs (e.g., the same file given twice) are only parsed once.
package trace
