package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Mohsinsiddi/bn8004/internal/wallet"
)

// Confirm prompts the user with a yes/no question on out and reads the answer
// from in. Returns true for yes.
func Confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", StyleWarning.Render(prompt))
	return readYes(bufio.NewReader(in))
}

// ConfirmDanger is like Confirm but styled with the error color (for
// spending actions).
func ConfirmDanger(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", StyleError.Render("⚠ "+prompt))
	return readYes(bufio.NewReader(in))
}

func readYes(r *bufio.Reader) bool {
	line, _ := r.ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}

// PromptAuthorizer asks on the terminal before the local wallet connects,
// switches network or signs. Transactions use the danger style.
func PromptAuthorizer(in io.Reader, out io.Writer) wallet.AuthorizeFunc {
	var mu sync.Mutex
	r := bufio.NewReader(in)
	return func(ctx context.Context, req wallet.AuthRequest) bool {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return false
		}
		style := StyleWarning
		prompt := req.Summary()
		if req.Kind == wallet.AuthTransaction {
			style = StyleError
			prompt = "⚠ " + prompt
		}
		fmt.Fprintf(out, "%s [y/N]: ", style.Render(prompt))
		return readYes(r)
	}
}
