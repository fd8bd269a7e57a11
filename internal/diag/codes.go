package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// импорт и наследование
	ImpInfo             Code = 1000
	ImpUnresolvedType   Code = 1001
	ImpInheritanceCycle Code = 1002
	ImpImporterWarning  Code = 1003

	// проход по документу
	LintInfo             Code = 2000
	LintNoMatchingSignal Code = 2001
	LintWithStatement    Code = 2002
	LintDepthExceeded    Code = 2003

	// проверка квалификаторов
	QualInfo              Code = 3000
	QualUnqualifiedAccess Code = 3001
	QualInjectedParameter Code = 3002
	QualMissingProperty   Code = 3003

	// ввод-вывод
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IODecodeError   Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	ImpInfo:             "Import information",
	ImpUnresolvedType:   "Base type not found",
	ImpInheritanceCycle: "Inheritance cycle",
	ImpImporterWarning:  "Type importer warning",

	LintInfo:             "Lint information",
	LintNoMatchingSignal: "No matching signal for handler",
	LintWithStatement:    "Discouraged with statement",
	LintDepthExceeded:    "Nesting too deep",

	QualInfo:              "Qualifier information",
	QualUnqualifiedAccess: "Unqualified access",
	QualInjectedParameter: "Injected signal handler parameter",
	QualMissingProperty:   "Member not found on type",

	IOInfo:          "I/O information",
	IOLoadFileError: "Failed to load file",
	IODecodeError:   "Failed to decode document",
}

// ID returns the stable short identifier, e.g. QUA3001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IMP%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LNT%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("QUA%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return fmt.Sprintf("E%04d", int(c))
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
