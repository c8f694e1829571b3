// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

// Control is "where the machine is looking" (spec.md §3): either about
// to evaluate an expression, or returning a value to the topmost frame.
// Implemented as a tagged sum rather than an interface, since the driver
// switches on it exhaustively on every step and there are exactly two
// shapes — the same closed-sum discipline the teacher applies to Frame.
type Control struct {
	eval bool // true: Eval case; false: Kont case

	Exp Exp
	Env Env

	Val Value
}

// Eval builds a Control about to evaluate e under ρ.
func Eval(e Exp, env Env) Control {
	return Control{eval: true, Exp: e, Env: env}
}

// KontControl builds a Control returning v to the topmost frame.
// (Named KontControl, not Kont, to avoid colliding with the Kont
// continuation-chain type in frame.go.)
func KontControl(v Value) Control {
	return Control{eval: false, Val: v}
}

// IsEval reports whether this is the Eval(e, ρ) case.
func (c Control) IsEval() bool { return c.eval }

// Key returns a structural fingerprint for State de-duplication.
func (c Control) Key() string {
	if c.eval {
		return "eval:" + addrExpKey(c.Exp) + ";" + c.Env.Key()
	}
	fp, _ := c.Val.(Fingerprint)
	key := "?"
	if fp != nil {
		key = fp.Fingerprint()
	}
	return "kont:" + key
}

func addrExpKey(e Exp) string {
	if e == nil {
		return "<nil>"
	}
	return Classical{}.Kont(e).String()
}
