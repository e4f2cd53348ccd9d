package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tsvm/program"
	"tsvm/runtime"
	"tsvm/verify"
	"tsvm/vm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tsvm",
		Short: "A tiny stack-oriented bytecode virtual machine",
	}
	root.AddCommand(newRunCmd(), newVerifyCmd(), newDisasmCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var trace bool
	cmd := &cobra.Command{
		Use:   "run <file.yaml> [args...]",
		Short: "Verify and execute a program, printing its return value",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			hostArgs, err := parseArgs(p, args[1:])
			if err != nil {
				return err
			}
			result, err := vm.Run(p, trace, hostArgs...)
			if err != nil {
				return err
			}
			fmt.Println(formatResult(result))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&trace, "trace", "t", false, "print each instruction as it executes")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file.yaml>",
		Short: "Statically verify a program without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			if err := verify.Verify(p); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func newDisasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <file.yaml>",
		Short: "Print a program's locals and instruction vector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			disassemble(p)
			return nil
		},
	}
}

func loadProgram(path string) (*program.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return program.Parse(f)
}

func parseArgs(p *program.Program, raw []string) ([]any, error) {
	if len(raw) != p.ArgumentCount {
		return nil, fmt.Errorf("%s expects %d argument(s), got %d", p.Name, p.ArgumentCount, len(raw))
	}
	out := make([]any, len(raw))
	for i, s := range raw {
		local := p.LocalAt(i)
		switch local.Type {
		case runtime.Int:
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("argument %d (%s): %w", i, local.Label, err)
			}
			out[i] = n
		case runtime.Float:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("argument %d (%s): %w", i, local.Label, err)
			}
			out[i] = f
		case runtime.IntArray:
			out[i] = parseCSVInts(s)
		case runtime.FloatArray:
			out[i] = parseCSVFloats(s)
		default:
			return nil, fmt.Errorf("argument %d (%s): unsupported declared type %s", i, local.Label, local.Type)
		}
	}
	return out, nil
}

func parseCSVInts(s string) []int64 {
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, _ := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		out = append(out, n)
	}
	return out
}

func parseCSVFloats(s string) []float64 {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, _ := strconv.ParseFloat(strings.TrimSpace(p), 64)
		out = append(out, f)
	}
	return out
}

func formatResult(r vm.Result) string {
	switch r.Type {
	case runtime.Int:
		return strconv.FormatInt(r.Int, 10)
	case runtime.Float:
		return strconv.FormatFloat(r.Float, 'g', -1, 64)
	case runtime.IntArray:
		parts := make([]string, len(r.Ints))
		for i, n := range r.Ints {
			parts[i] = strconv.FormatInt(n, 10)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case runtime.FloatArray:
		parts := make([]string, len(r.Floats))
		for i, f := range r.Floats {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return r.Type.String()
	}
}

func disassemble(p *program.Program) {
	fmt.Printf("func %s -> %s\n", p.Name, p.ReturnType)
	for i, l := range p.Locals {
		role := "lvar"
		if i < p.ArgumentCount {
			role = "arg"
		}
		fmt.Printf("  %-4s %-8s %s\n", role, l.Type, l.Label)
	}
	fmt.Println("ins:")
	for i := 0; i < p.Len(); i++ {
		inst := p.InstructionAt(i)
		switch program.Kind(inst.Op) {
		case program.ArgInt, program.ArgLabel:
			fmt.Printf("  %4d: %-12s %d\n", i, inst.Op, inst.IntArg)
		case program.ArgFloat:
			fmt.Printf("  %4d: %-12s %g\n", i, inst.Op, inst.FloatArg)
		default:
			fmt.Printf("  %4d: %s\n", i, inst.Op)
		}
	}
}
