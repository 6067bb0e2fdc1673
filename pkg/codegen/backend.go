package codegen

import (
	"bytes"

	"github.com/vsthijs/tack/pkg/config"
	"github.com/vsthijs/tack/pkg/ir"
)

// Backend turns a lowered program into target assembly.
type Backend interface {
	Assemble(prog *ir.Program, cfg *config.Config) (*bytes.Buffer, error)
}

func NewBackend() Backend { return &qbeBackend{} }

type qbeBackend struct{}
