package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/studygenius/internal/chat"
	"github.com/csheth/studygenius/internal/config"
	"github.com/csheth/studygenius/internal/ingest"
	"github.com/csheth/studygenius/internal/llm"
)

func ingestFileJob(source, path string) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		file, err := ingest.FromPath(path)
		return ingestResultMsg{source: source, file: file, err: err}, err
	}
}

// analyzeJob has no deadline of its own; the session waits until the
// gateway answers or its transport gives up.
func analyzeJob(client llm.Client, file ingest.UploadedFile) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		result, err := client.AnalyzeDocument(ctx, file)
		return analysisResultMsg{fileName: file.Name, result: result, err: err}, err
	}
}

func chatJob(generation int, client llm.Client, file ingest.UploadedFile, pending *chat.Pending) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		reply := pending.Resolve(ctx, client, file)
		return chatReplyMsg{generation: generation, reply: reply}, nil
	}
}

func saveCredentialJob(store *config.CredentialStore, key string) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		if store == nil {
			return credentialSavedMsg{key: key}, nil
		}
		err := store.SaveAPIKey(key)
		return credentialSavedMsg{key: key, err: err}, err
	}
}

// waitForInbox turns the next path from the watcher into a message. It
// returns nil once the channel closes, which ends the subscription.
func waitForInbox(paths <-chan string) tea.Cmd {
	if paths == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-paths
		if !ok {
			return nil
		}
		return inboxFileMsg{path: path}
	}
}

// uploadErrorText maps an ingest failure to the line shown under the picker.
func uploadErrorText(err error) string {
	var verr *ingest.ValidationError
	if errors.As(err, &verr) {
		return verr.UserMessage()
	}
	return err.Error()
}
