// Package prompt builds the messages sent to the model by the suggest
// command.
//
// A suggestion is at most two round trips. The first asks for a pattern:
//
//	msgs, err := prompt.Build(prompt.TypeSuggestPattern, prompt.BuildOptions{
//	    Samples: samples,
//	    Files:   []string{path},
//	})
//
// When the reply does not validate, the exchange is replayed with the reply
// prefilled as the assistant turn and the problem appended:
//
//	opts.PreviousReply = resp.Content
//	opts.Problem = "it matched 0 of 12 sample lines"
//	msgs, err = prompt.Build(prompt.TypeRepairPattern, opts)
package prompt
