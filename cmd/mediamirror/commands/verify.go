package commands

import (
	"fmt"

	"git.home.luguber.info/inful/mediamirror/internal/verify"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	Root   string `arg:"" optional:"" help:"Output tree to verify (default: config 'output')"`
	Strict bool   `help:"Exit with an error when any issue is found"`
}

func (v *VerifyCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root)
	if err != nil {
		return err
	}

	outputRoot := ResolveRoot(v.Root, cfg)
	issues, err := verify.Tree(outputRoot, cfg.Origins)
	if err != nil {
		return fmt.Errorf("verify tree: %w", err)
	}

	for _, issue := range issues {
		fmt.Println(issue)
	}
	if len(issues) == 0 {
		fmt.Println("No issues found.")
		return nil
	}
	fmt.Printf("%d issue(s) found.\n", len(issues))
	if v.Strict {
		return fmt.Errorf("verification failed with %d issue(s)", len(issues))
	}
	return nil
}
