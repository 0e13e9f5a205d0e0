// Package modkit provides module wiring and core deps
package modkit

import (
	"sikabook/internal/core/lexicon"
	"sikabook/internal/modkit/repokit"
	"sikabook/internal/platform/config"
	"sikabook/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	DB  repokit.TxRunner
	Lex *lexicon.Pack
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check optional fields
func (d Deps) ZeroOK() bool { return true }
