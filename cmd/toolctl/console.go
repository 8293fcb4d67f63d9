package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/th3jlux/toolsmith/internal/domain"
)

// consoleNotifier maps the controller's alert/confirm surface onto the
// terminal.
type consoleNotifier struct {
	out        io.Writer
	in         io.Reader
	autoAccept bool
}

func (n *consoleNotifier) Notify(msg string) {
	fmt.Fprintln(n.out, msg)
}

func (n *consoleNotifier) Confirm(question string) bool {
	if n.autoAccept {
		return true
	}

	fmt.Fprintf(n.out, "%s [y/N] ", question)

	line, err := bufio.NewReader(n.in).ReadString('\n')

	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))

	return answer == "y" || answer == "yes"
}

// consoleBinding is the terminal's stand-in for the page: the busy
// indicator becomes a status line, the editor popup becomes printed
// source, and a refresh becomes a hint to re-list.
type consoleBinding struct {
	out io.Writer

	page string
	code domain.CodePair
}

func (b *consoleBinding) SetBusy(busy bool) {
	if busy {
		fmt.Fprintln(b.out, "working...")
	}
}

func (b *consoleBinding) SetTitle(title string, locked bool) {}

func (b *consoleBinding) SelectUtility(index int) {}

func (b *consoleBinding) ClearSelection() {}

func (b *consoleBinding) SetCode(pair domain.CodePair) {
	b.code = pair
}

func (b *consoleBinding) OpenEditor() {
	fmt.Fprintf(b.out, "--- python ---\n%s\n--- html ---\n%s\n", b.code.PythonCode, b.code.HTMLCode)
}

func (b *consoleBinding) ClearChatInput() {}

func (b *consoleBinding) CurrentPath() string {
	return b.page
}

func (b *consoleBinding) Refresh() {
	fmt.Fprintln(b.out, "done; reload the tool list to see the change")
}
