package terminal

import (
	"errors"
	"fmt"
	"os"

	fleeterrors "github.com/fleetctl/fleetctl/pkg/errors"
	"github.com/manifoldco/promptui"
)

type PromptSelectContent struct {
	ErrorMsg string
	Label    string
	Items    []string
}

func PromptSelectInput(pc PromptSelectContent) string {
	prompt := promptui.Select{
		Label: pc.Label,
		Items: pc.Items,
	}

	_, result, err := prompt.Run()
	if err != nil {
		fmt.Printf("Prompt failed %v\n", err)
		os.Exit(1)
	}

	return result
}

// ConfirmDestructive prompts the operator before a converge that may
// create or destroy nodes, the way the teacher's destructive
// commands (delete, reset) gate on a confirmation prompt before acting.
func ConfirmDestructive(t *Terminal, summary string) bool {
	t.Eprint(t.Yellow(summary))
	result := PromptSelectInput(PromptSelectContent{
		Label: "proceed?",
		Items: []string{"no", "yes"},
	})
	return result == "yes"
}

type PromptContent struct {
	ErrorMsg string
	Label    string
	Default  string
}

func PromptGetInput(pc PromptContent) string {
	validate := func(input string) error {
		if len(input) == 0 {
			return fleeterrors.WrapAndTrace(errors.New(pc.ErrorMsg))
		}
		return nil
	}

	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} ",
		Valid:   "{{ . | green }} ",
		Invalid: "{{ . | yellow }} ",
		Success: "{{ . | bold }} ",
	}

	prompt := promptui.Prompt{
		Label:     pc.Label,
		Templates: templates,
		Validate:  validate,
		Default:   pc.Default,
		AllowEdit: true,
	}

	result, err := prompt.Run()
	if err != nil {
		fmt.Printf("Prompt failed %v\n", err)
		os.Exit(1)
	}

	return result
}
