// Package asm decodes the textual instruction syntax into instr programs.
//
// One instruction per line, fields separated by whitespace:
//
//	set a 1
//	jgz a -2
//	snd p
//	rcv b
//
// Blank lines and lines starting with '#' or ';' are skipped. Trailing
// comments after an instruction are also allowed.
package asm

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/sarchlab/duet/instr"
)

// ParseError reports a line that could not be decoded.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %q: %s", e.Line, e.Text, e.Reason)
	}

	return fmt.Sprintf("%q: %s", e.Text, e.Reason)
}

// Parse decodes a whole program.
func Parse(name, text string) (instr.Program, error) {
	var insts []instr.Inst

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}

		inst, err := ParseLine(line)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Line = lineNo
			}
			return instr.Program{}, err
		}

		insts = append(insts, inst)
	}

	if err := scanner.Err(); err != nil {
		return instr.Program{}, fmt.Errorf("reading %s: %w", name, err)
	}

	return instr.NewProgram(name, insts...), nil
}

// ParseLine decodes a single instruction. The returned error is always a
// *ParseError with Line left at 0.
func ParseLine(s string) (instr.Inst, error) {
	fields := strings.Fields(stripComment(s))
	if len(fields) == 0 {
		return instr.Inst{}, &ParseError{Text: s, Reason: "empty instruction"}
	}

	op, ok := instr.LookupOpcode(fields[0])
	if !ok {
		return instr.Inst{}, &ParseError{
			Text:   s,
			Reason: fmt.Sprintf("unknown instruction %s", fields[0]),
		}
	}

	args := fields[1:]
	want := 2
	if op == instr.OpSnd || op == instr.OpRcv {
		want = 1
	}

	if len(args) != want {
		return instr.Inst{}, &ParseError{
			Text:   s,
			Reason: fmt.Sprintf("%s expects %d operands, got %d", op, want, len(args)),
		}
	}

	p := lineParser{text: s}
	inst := instr.Inst{Op: op}

	switch op {
	case instr.OpSet, instr.OpAdd, instr.OpMul, instr.OpMod:
		inst.Dst = p.register(args[0])
		inst.Src = p.operand(args[1])
	case instr.OpJgz:
		inst.Cond = p.operand(args[0])
		inst.Offset = p.operand(args[1])
	case instr.OpSnd:
		inst.Src = p.operand(args[0])
	case instr.OpRcv:
		inst.Dst = p.register(args[0])
	}

	if p.err != nil {
		return instr.Inst{}, p.err
	}

	return inst, nil
}

// lineParser keeps the first operand error of a line.
type lineParser struct {
	text string
	err  *ParseError
}

func (p *lineParser) register(s string) instr.Register {
	r, err := instr.ParseRegister(s)
	if err != nil && p.err == nil {
		p.err = &ParseError{Text: p.text, Reason: err.Error()}
	}

	return r
}

func (p *lineParser) operand(s string) instr.Operand {
	o, err := instr.ParseOperand(s)
	if err != nil && p.err == nil {
		p.err = &ParseError{Text: p.text, Reason: err.Error()}
	}

	return o
}

func stripComment(line string) string {
	if i := strings.IndexAny(line, "#;"); i >= 0 {
		line = line[:i]
	}

	return strings.TrimSpace(line)
}
