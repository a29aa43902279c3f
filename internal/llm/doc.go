// Package llm is the language model layer behind the suggest command.
//
// Provider hides the concrete backend. The only backend is a local Ollama
// server (package llm/ollama), which keeps sample lines on the machine.
// Because the ollama package cannot import llm, it declares its own
// message types and NewProvider wraps it in an adapter.
//
//	provider, err := llm.NewProvider(cfg.LLM, logger)
//	if err != nil {
//	    return err
//	}
//	if err := provider.Heartbeat(ctx); err != nil {
//	    return err
//	}
//	resp, err := provider.Chat(ctx, messages, &llm.ChatOptions{JSON: true})
//
// Package suggest builds on Provider: it shows the model sample lines, asks
// for a directive pattern, and checks the answer against the file before
// returning it.
package llm
