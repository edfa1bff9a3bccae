package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
	"XL":     "r26",
	"XH":     "r27",
	"YL":     "r28",
	"YH":     "r29",
	"ZL":     "r30",
	"ZH":     "r31",
}

// link is an opcode whose target operand waits for a label.
type link struct {
	index    int  // Index into Assembler.Opcode
	op       Op   // Operation to re-encode.
	ops      []int
	arg      int  // Operand holding the target.
	relative bool // Target is a displacement from the next instruction.
}

// Assembler is a single pass macro assembler for the AVR instruction set.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of jump labels to program word addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	links      []link
	expansions int // Count of macro expansions.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	if len(word) == 0 {
		err = ErrOpcodeValueMissing
		return
	}
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) > 1 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word[1 : len(word)-1])
		return
	}
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil || v64 > 0xffffffff || v64 < -int64(0x80000000) {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	if invert {
		value = ^value
	}

	return
}

// number returns the value of a word, resolving an equate first.
func (asm *Assembler) number(word string) (value int, err error) {
	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}
	return asm.valueOf(word)
}

// register parses a register name, r0 through r31.
func (asm *Assembler) register(word string) (reg int, err error) {
	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}
	word = strings.ToLower(word)
	if len(word) < 2 || word[0] != 'r' {
		err = ErrRegisterInvalid
		return
	}
	reg, err = strconv.Atoi(word[1:])
	if err != nil || reg < 0 || reg >= REGISTERS {
		err = ErrRegisterInvalid
		return
	}
	return
}

// pointer parses X, X+, -X, Y, Y+, -Y, Y+q, Z, Z+, -Z and Z+q.
func (asm *Assembler) pointer(word string) (ptr Pointer, mode int, disp int, displaced bool, err error) {
	rest := word
	if strings.HasPrefix(rest, "-") {
		mode = MODE_PRE_DEC
		rest = rest[1:]
	}
	if len(rest) == 0 {
		err = ErrPointerInvalid
		return
	}

	switch strings.ToUpper(rest[:1]) {
	case "X":
		ptr = POINTER_X
	case "Y":
		ptr = POINTER_Y
	case "Z":
		ptr = POINTER_Z
	default:
		err = ErrPointerInvalid
		return
	}
	rest = rest[1:]

	switch {
	case rest == "":
	case rest == "+" && mode == MODE_PLAIN:
		mode = MODE_POST_INC
	case strings.HasPrefix(rest, "+") && mode == MODE_PLAIN && ptr != POINTER_X:
		disp, err = asm.number(rest[1:])
		displaced = true
	default:
		err = ErrPointerInvalid
	}

	return
}

// target parses a jump target: a label, a number, or '.+N' / '.-N'
// byte offsets from the next instruction.
func (asm *Assembler) target(word string, relative bool) (value int, label string, err error) {
	if strings.HasPrefix(word, ".+") || strings.HasPrefix(word, ".-") {
		if !relative {
			err = ErrInstructionInvalid
			return
		}
		value, err = asm.valueOf(word[1:])
		value /= 2
		return
	}

	value, err = asm.number(word)
	if err == nil {
		return
	}

	if reLabel.MatchString(word) {
		err = nil
		label = word
	}

	return
}

// lo8 and hi8 split 16 bit expressions into bytes.
var exprBuiltins = starlark.StringDict{
	"lo8": starlark.NewBuiltin("lo8", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var v int
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
			return nil, err
		}
		return starlark.MakeInt(v & 0xff), nil
	}),
	"hi8": starlark.NewBuiltin("hi8", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var v int
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
			return nil, err
		}
		return starlark.MakeInt((v >> 8) & 0xff), nil
	}),
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := maps.Clone(exprBuiltins)
	for key, str := range asm.Equate {
		var v int
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	err = nil
	// Labels already seen are word addresses.
	for key, pc := range asm.Label {
		pred[key] = starlark.MakeInt(pc)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel      = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
)

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "0":
				str = "\000"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	line = strings.ReplaceAll(line, ",", " ")
	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE, .equ CONST = VALUE, .def NAME = rN
	if words[0] == ".equ" || words[0] == ".def" {
		if len(words) == 4 && words[2] == "=" {
			words = slices.Delete(words, 2, 3)
		}
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentPc()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// '@' expands to a prefix unique to this expansion.
		asm.expansions++
		local := fmt.Sprintf("%v_%v_", name, asm.expansions)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentPc gets the word address of the next opcode.
func (asm *Assembler) currentPc() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Pc + len(last.Codes)
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.links = asm.links[:0]
	asm.expansions = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of jump labels.
	for _, lnk := range asm.links {
		op := &asm.Opcode[lnk.index]
		lineno = op.LineNo
		line = strings.Join(op.Text, " ")

		pc, ok := asm.Label[op.LinkLabel]
		if !ok {
			err = ErrLabelMissing(op.LinkLabel)
			return
		}
		if lnk.relative {
			pc -= op.Pc + len(op.Codes)
		}

		ops := slices.Clone(lnk.ops)
		ops[lnk.arg] = pc
		op.Codes, err = Encode(lnk.op, ops...)
		if err != nil {
			if lnk.relative {
				err = errors.Join(ErrBranchRange, err)
			}
			return
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// Register-register operations.
var rrMap = map[string]Op{
	"add":  OP_ADD,
	"adc":  OP_ADC,
	"sub":  OP_SUB,
	"sbc":  OP_SBC,
	"and":  OP_AND,
	"or":   OP_OR,
	"eor":  OP_EOR,
	"cp":   OP_CP,
	"cpc":  OP_CPC,
	"cpse": OP_CPSE,
	"mov":  OP_MOV,
	"movw": OP_MOVW,
	"mul":  OP_MUL,
}

// Register-immediate operations.
var rkMap = map[string]Op{
	"subi": OP_SUBI,
	"sbci": OP_SBCI,
	"andi": OP_ANDI,
	"ori":  OP_ORI,
	"cpi":  OP_CPI,
	"ldi":  OP_LDI,
	"adiw": OP_ADIW,
	"sbiw": OP_SBIW,
}

// Single register operations.
var rMap = map[string]Op{
	"com":  OP_COM,
	"neg":  OP_NEG,
	"swap": OP_SWAP,
	"inc":  OP_INC,
	"dec":  OP_DEC,
	"asr":  OP_ASR,
	"lsr":  OP_LSR,
	"ror":  OP_ROR,
	"push": OP_PUSH,
	"pop":  OP_POP,
}

// Register-bit operations.
var rbMap = map[string]Op{
	"bst":  OP_BST,
	"bld":  OP_BLD,
	"sbrc": OP_SBRC,
	"sbrs": OP_SBRS,
}

// I/O bit operations.
var abMap = map[string]Op{
	"sbi":  OP_SBI,
	"cbi":  OP_CBI,
	"sbic": OP_SBIC,
	"sbis": OP_SBIS,
}

// Operations without operands.
var noneMap = map[string]Op{
	"nop":   OP_NOP,
	"ijmp":  OP_IJMP,
	"icall": OP_ICALL,
	"ret":   OP_RET,
	"sleep": OP_SLEEP,
	"break": OP_BREAK,
	"wdr":   OP_WDR,
}

// bitAlias is a mnemonic that fixes the status bit of its operation.
type bitAlias struct {
	op  Op
	bit int
}

// flagMap maps the flag set/clear aliases to BSET/BCLR.
var flagMap = map[string]bitAlias{}

// branchMap maps the conditional branch aliases to BRBS/BRBC.
var branchMap = map[string]bitAlias{}

func init() {
	for bit, flag := range "cznvshti" {
		flagMap["se"+string(flag)] = bitAlias{OP_BSET, bit}
		flagMap["cl"+string(flag)] = bitAlias{OP_BCLR, bit}
	}
	for set, names := range branchNames {
		op := OP_BRBC
		if set == 1 {
			op = OP_BRBS
		}
		for bit, name := range names {
			branchMap[strings.ToLower(name)] = bitAlias{op, bit}
		}
	}
	// Common synonyms
	branchMap["brsh"] = branchMap["brcc"]
	branchMap["brlo"] = branchMap["brcs"]
}

// imm8 checks an 8 bit immediate, allowing inverted and negative values.
func imm8(value int) (int, error) {
	if value < -256 || value > 255 {
		return 0, ErrOperandRange
	}
	return value & 0xff, nil
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []uint16
	var label string
	var lnk *link

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(codes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Pc: asm.currentPc(), Text: initial_words, Codes: codes}
		if lnk != nil {
			opcode.LinkLabel = label
			lnk.index = len(asm.Opcode)
			asm.links = append(asm.links, *lnk)
		}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	need := func(count int) error {
		switch {
		case len(args) < count:
			return ErrOpcodeValueMissing
		case len(args) > count:
			return ErrOpcodeExtraArgs
		}
		return nil
	}

	// Alternate syntax substitutions
	switch mnemonic {
	case "clr":
		// clr Rd => eor Rd, Rd
		if err = need(1); err != nil {
			return
		}
		mnemonic, args = "eor", []string{args[0], args[0]}
	case "tst":
		// tst Rd => and Rd, Rd
		if err = need(1); err != nil {
			return
		}
		mnemonic, args = "and", []string{args[0], args[0]}
	case "lsl":
		// lsl Rd => add Rd, Rd
		if err = need(1); err != nil {
			return
		}
		mnemonic, args = "add", []string{args[0], args[0]}
	case "rol":
		// rol Rd => adc Rd, Rd
		if err = need(1); err != nil {
			return
		}
		mnemonic, args = "adc", []string{args[0], args[0]}
	case "ser":
		// ser Rd => ldi Rd, 0xff
		if err = need(1); err != nil {
			return
		}
		mnemonic, args = "ldi", []string{args[0], "0xff"}
	case "sbr":
		// sbr Rd, K => ori Rd, K
		mnemonic = "ori"
	case "cbr":
		// cbr Rd, K => andi Rd, ~K
		if err = need(2); err != nil {
			return
		}
		var k int
		k, err = asm.number(args[1])
		if err != nil {
			return
		}
		mnemonic, args = "andi", []string{args[0], fmt.Sprintf("%d", ^k&0xff)}
	default:
		// unchanged
	}

	var op Op
	var ops []int

	// relocate records a jump target that is still a label.
	relocate := func(arg int, relative bool) {
		lnk = &link{op: op, ops: slices.Clone(ops), arg: arg, relative: relative}
	}

	if flag, ok := flagMap[mnemonic]; ok {
		if err = need(0); err != nil {
			return
		}
		op, ops = flag.op, []int{flag.bit}
	} else if branch, ok := branchMap[mnemonic]; ok {
		if err = need(1); err != nil {
			return
		}
		var k int
		k, label, err = asm.target(args[0], true)
		if err != nil {
			return
		}
		op, ops = branch.op, []int{branch.bit, k}
		if len(label) > 0 {
			relocate(1, true)
		}
	} else if op, ok = noneMap[mnemonic]; ok {
		if err = need(0); err != nil {
			return
		}
	} else if op, ok = rrMap[mnemonic]; ok {
		if err = need(2); err != nil {
			return
		}
		ops = make([]int, 2)
		for n := range ops {
			ops[n], err = asm.register(args[n])
			if err != nil {
				return
			}
		}
	} else if op, ok = rkMap[mnemonic]; ok {
		if err = need(2); err != nil {
			return
		}
		var d, k int
		d, err = asm.register(args[0])
		if err != nil {
			return
		}
		k, err = asm.number(args[1])
		if err != nil {
			return
		}
		if op != OP_ADIW && op != OP_SBIW {
			k, err = imm8(k)
			if err != nil {
				return
			}
		}
		ops = []int{d, k}
	} else if op, ok = rMap[mnemonic]; ok {
		if err = need(1); err != nil {
			return
		}
		var d int
		d, err = asm.register(args[0])
		if err != nil {
			return
		}
		ops = []int{d}
	} else if op, ok = rbMap[mnemonic]; ok {
		if err = need(2); err != nil {
			return
		}
		var d, b int
		d, err = asm.register(args[0])
		if err != nil {
			return
		}
		b, err = asm.number(args[1])
		if err != nil {
			return
		}
		ops = []int{d, b}
	} else if op, ok = abMap[mnemonic]; ok {
		if err = need(2); err != nil {
			return
		}
		var a, b int
		a, err = asm.number(args[0])
		if err != nil {
			return
		}
		b, err = asm.number(args[1])
		if err != nil {
			return
		}
		ops = []int{a, b}
	} else {
		switch mnemonic {
		case ".dw":
			if len(args) == 0 {
				err = ErrOpcodeValueMissing
				return
			}
			for _, arg := range args {
				var value int
				value, err = asm.number(arg)
				if err != nil {
					return
				}
				codes = append(codes, uint16(value))
			}
			return
		case "bset", "bclr", "brbs", "brbc":
			op = map[string]Op{"bset": OP_BSET, "bclr": OP_BCLR, "brbs": OP_BRBS, "brbc": OP_BRBC}[mnemonic]
			count := 1
			if op == OP_BRBS || op == OP_BRBC {
				count = 2
			}
			if err = need(count); err != nil {
				return
			}
			var s int
			s, err = asm.number(args[0])
			if err != nil {
				return
			}
			ops = []int{s}
			if count == 2 {
				var k int
				k, label, err = asm.target(args[1], true)
				if err != nil {
					return
				}
				ops = append(ops, k)
				if len(label) > 0 {
					relocate(1, true)
				}
			}
		case "rjmp", "rcall", "jmp", "call":
			if err = need(1); err != nil {
				return
			}
			op = map[string]Op{"rjmp": OP_RJMP, "rcall": OP_RCALL, "jmp": OP_JMP, "call": OP_CALL}[mnemonic]
			relative := op == OP_RJMP || op == OP_RCALL
			var k int
			k, label, err = asm.target(args[0], relative)
			if err != nil {
				return
			}
			ops = []int{k}
			if len(label) > 0 {
				relocate(0, relative)
			}
		case "ld", "ldd", "st", "std":
			if err = need(2); err != nil {
				return
			}
			reg, ptr := args[0], args[1]
			op = OP_LD
			if mnemonic[0] == 's' {
				reg, ptr = args[1], args[0]
				op = OP_ST
			}
			var d, mode, q int
			var p Pointer
			var displaced bool
			d, err = asm.register(reg)
			if err != nil {
				return
			}
			p, mode, q, displaced, err = asm.pointer(ptr)
			if err != nil {
				return
			}
			if displaced || mnemonic == "ldd" || mnemonic == "std" {
				if !displaced && (mode != MODE_PLAIN || p == POINTER_X) {
					err = ErrPointerInvalid
					return
				}
				if op == OP_LD {
					op = OP_LDD
				} else {
					op = OP_STD
				}
				ops = []int{d, int(p), q}
			} else {
				ops = []int{d, int(p), mode}
			}
		case "lds", "sts":
			if err = need(2); err != nil {
				return
			}
			reg, addr := args[0], args[1]
			op = OP_LDS
			if mnemonic == "sts" {
				reg, addr = args[1], args[0]
				op = OP_STS
			}
			var d, k int
			d, err = asm.register(reg)
			if err != nil {
				return
			}
			k, err = asm.number(addr)
			if err != nil {
				return
			}
			ops = []int{d, k}
		case "lpm":
			op = OP_LPM
			if len(args) == 0 {
				break
			}
			if err = need(2); err != nil {
				return
			}
			var d, mode int
			var p Pointer
			d, err = asm.register(args[0])
			if err != nil {
				return
			}
			p, mode, _, _, err = asm.pointer(args[1])
			if err != nil {
				return
			}
			if p != POINTER_Z || mode == MODE_PRE_DEC {
				err = ErrPointerInvalid
				return
			}
			ops = []int{d, mode}
		case "in", "out":
			if err = need(2); err != nil {
				return
			}
			reg, addr := args[0], args[1]
			op = OP_IN
			if mnemonic == "out" {
				reg, addr = args[1], args[0]
				op = OP_OUT
			}
			var d, a int
			d, err = asm.register(reg)
			if err != nil {
				return
			}
			a, err = asm.number(addr)
			if err != nil {
				return
			}
			ops = []int{d, a}
			if op == OP_OUT {
				ops = []int{a, d}
			}
		default:
			err = ErrInstructionInvalid
			return
		}
	}

	codes, err = Encode(op, ops...)
	if err != nil {
		codes = nil
	}

	return
}
