// Package cli implements the test command: a built-in self-check that runs
// the evaluation pipeline against a fixed set of known-answer scenarios so
// an operator can sanity-check a config/pack change before trusting it.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/Dicklesworthstone/dcg/internal/evaluator"
	"github.com/Dicklesworthstone/dcg/internal/output"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(testCmd)
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the built-in evaluation self-check",
	Long: `test evaluates a fixed set of known-answer commands against the
loaded configuration and reports which ones produced the expected verdict.
It exists to catch a pack or config change that silently widens or narrows
what dcg blocks, and never executes any of the scenario commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		os.Exit(runSelfTest())
		return nil
	},
}

// selfTestCase is one known-answer scenario: a command and the verdict it
// must produce under default policy.
type selfTestCase struct {
	Name    string
	Command string
	Want    evaluator.Verdict
}

// selfTestCases mirrors the concrete scenarios a complete pipeline must get
// right: git/disk/permissions precedence, the safe-anchor invariant, inline
// and heredoc sub-evaluation, and the env -S false-positive regression.
var selfTestCases = []selfTestCase{
	{"git-reset-hard-denied", "git reset --hard", evaluator.Deny},
	{"git-status-allowed", "git status", evaluator.Allow},
	{"dd-to-null-allowed", "dd if=zero.dat of=/dev/null bs=1M", evaluator.Allow},
	{"dd-to-block-device-denied", "dd if=foo of=/dev/sda", evaluator.Deny},
	{"chmod-single-file-allowed", "chmod 644 file_777", evaluator.Allow},
	{"chmod-recursive-etc-denied", "chmod -R 755 /etc", evaluator.Deny},
	{"chmod-recursive-home-allowed", "chmod -R 755 /home/user/project", evaluator.Allow},
	{"safe-anchor-rm-rf-semicolon-denied", "rm -rf / ; git checkout -b foo", evaluator.Deny},
	{"inline-python-os-system-denied", `python -u -c "import os; os.system('rm -rf /')"`, evaluator.Deny},
	{"bash-c-kubectl-delete-namespace-denied", `bash -c 'kubectl delete namespace production'`, evaluator.Deny},
	{"heredoc-spaced-delimiter-shutil-rmtree-denied", "python3 << \"EOF SPACE\"\nimport shutil\nshutil.rmtree('/')\nEOF SPACE", evaluator.Deny},
	{"env-dash-s-echo-false-positive-allowed", `env -S "echo git reset --hard"`, evaluator.Allow},
}

type selfTestResult struct {
	Name    string `json:"name"`
	Command string `json:"command"`
	Want    string `json:"want"`
	Got     string `json:"got"`
	Passed  bool   `json:"passed"`
}

// runSelfTest evaluates every selfTestCase against the loaded pipeline and
// returns the process exit code: 0 if every case matched its expected
// verdict, 1 if any diverged.
func runSelfTest() int {
	lc, err := loadPipeline()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 3
	}

	results := make([]selfTestResult, 0, len(selfTestCases))
	allPassed := true
	now := time.Now().UTC()
	for _, tc := range selfTestCases {
		decision := evaluator.Evaluate(tc.Command, lc.EvalCfg, lc.Registry, lc.Overrides, lc.Allow, now)
		passed := decision.Verdict == tc.Want
		if !passed {
			allPassed = false
		}
		results = append(results, selfTestResult{
			Name:    tc.Name,
			Command: tc.Command,
			Want:    tc.Want.String(),
			Got:     decision.Verdict.String(),
			Passed:  passed,
		})
	}

	if GetOutput() == "text" {
		for _, r := range results {
			mark := "ok"
			if !r.Passed {
				mark = "FAIL"
			}
			fmt.Printf("%-4s %-40s want=%-6s got=%-6s\n", mark, r.Name, r.Want, r.Got)
		}
		if allPassed {
			fmt.Println("all scenarios passed")
		} else {
			fmt.Println("one or more scenarios failed")
		}
	} else {
		out := output.New(output.Format(GetOutput()))
		_ = out.Write(map[string]any{"passed": allPassed, "results": results})
	}

	if !allPassed {
		return 1
	}
	return 0
}
