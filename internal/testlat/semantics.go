// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package testlat

import (
	"strconv"
	"strings"

	"github.com/hybscloud/aam"
)

// ReceiveFunc handles one (behavior, message name) pair for an actor
// (spec.md §4.7 StepReceive). It is handed the Semantics itself so it
// can allocate addresses and construct Vals the same way StepEval does.
type ReceiveFunc func(s *Semantics, self aam.PID, args []aam.Value, env aam.Env, store aam.Store, t aam.Timestamp) []aam.Action

// Semantics implements aam.Semantics for the testlat expression
// language (spec.md §4.4). One instance is configured for exactly one
// numeric abstraction (Mode/Bound) and one address policy, matching
// the kernel-level Config a CLI run selects.
type Semantics struct {
	Mode  Mode
	Bound int
	Addr  aam.AddressPolicy

	Behaviors map[string]*aam.Behavior
	Receivers map[string]map[string]ReceiveFunc
}

// NewSemantics builds a Semantics with empty behavior/receiver tables.
func NewSemantics(mode Mode, bound int, addr aam.AddressPolicy) *Semantics {
	return &Semantics{
		Mode:      mode,
		Bound:     bound,
		Addr:      addr,
		Behaviors: map[string]*aam.Behavior{},
		Receivers: map[string]map[string]ReceiveFunc{},
	}
}

// RegisterBehavior installs a named actor behavior so CreateActor nodes
// can refer to it.
func (s *Semantics) RegisterBehavior(b *aam.Behavior) { s.Behaviors[b.Name] = b }

// RegisterReceiver installs the handler for one (behaviorName,
// messageName) pair.
func (s *Semantics) RegisterReceiver(behaviorName, messageName string, fn ReceiveFunc) {
	handlers, ok := s.Receivers[behaviorName]
	if !ok {
		handlers = map[string]ReceiveFunc{}
		s.Receivers[behaviorName] = handlers
	}
	handlers[messageName] = fn
}

func (s *Semantics) bot() aam.Value { return Bot(s.Mode, s.Bound) }

// --- frames -----------------------------------------------------------

// appFrame evaluates App's function position, then each argument in
// turn, mirroring the teacher's Step/Suspend chaining (one frame per
// pending sub-expression rather than evaluating all at once).
type appFrame struct {
	origExp *Node
	env     aam.Env
	fnVal   aam.Value // nil until the function position has a value
	pending []*Node
	acc     []aam.Value
}

func (f appFrame) FrameKey() string {
	var b strings.Builder
	b.WriteString("app:")
	b.WriteString(strconv.FormatUint(uint64(f.origExp.ExpID()), 36))
	b.WriteByte('/')
	b.WriteString(f.env.Key())
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(len(f.pending)))
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(len(f.acc)))
	if f.fnVal != nil {
		b.WriteString("/fn")
	}
	return b.String()
}

type ifFrame struct {
	then, els *Node
	env       aam.Env
}

func (f ifFrame) FrameKey() string {
	return "if:" + strconv.FormatUint(uint64(f.then.ExpID()), 36) + "," +
		strconv.FormatUint(uint64(f.els.ExpID()), 36) + "/" + f.env.Key()
}

type letFrame struct {
	name aam.Identifier
	body *Node
	env  aam.Env
}

func (f letFrame) FrameKey() string {
	return "let:" + string(f.name) + "/" + strconv.FormatUint(uint64(f.body.ExpID()), 36) + "/" + f.env.Key()
}

type letrecFrame struct {
	addr aam.Address
	body *Node
	env  aam.Env
}

func (f letrecFrame) FrameKey() string {
	return "letrec:" + f.addr.String() + "/" + strconv.FormatUint(uint64(f.body.ExpID()), 36) + "/" + f.env.Key()
}

type beginFrame struct {
	pending []*Node
	env     aam.Env
}

func (f beginFrame) FrameKey() string {
	return "begin:" + strconv.Itoa(len(f.pending)) + "/" + f.env.Key()
}

type setFrame struct {
	name aam.Identifier
	env  aam.Env
}

func (f setFrame) FrameKey() string { return "set:" + string(f.name) + "/" + f.env.Key() }

type primFrame struct {
	op      string
	env     aam.Env
	pending []*Node
	acc     []aam.Value
}

func (f primFrame) FrameKey() string {
	return "prim:" + f.op + "/" + strconv.Itoa(len(f.pending)) + "/" + strconv.Itoa(len(f.acc)) + "/" + f.env.Key()
}

// sendFrame evaluates Send's target, then its arguments, accumulating
// the PIDs the message is destined for (spec.md §4.7 Send). targets is
// nil until the target expression has a value.
type sendFrame struct {
	msgName string
	env     aam.Env
	targets []aam.PID
	pending []*Node
	acc     []aam.Value
}

func (f sendFrame) FrameKey() string {
	b := "send:" + f.msgName + "/" + strconv.Itoa(len(f.targets)) + "/" + strconv.Itoa(len(f.pending)) + "/" + strconv.Itoa(len(f.acc)) + "/" + f.env.Key()
	return b
}

type peekFrame struct{ env aam.Env }

func (f peekFrame) FrameKey() string { return "peek:" + f.env.Key() }

// joinFrame evaluates Join's target down to a ThreadID value before
// the actual ActionJoin is raised (spec.md §4.6 Join).
type joinFrame struct{ env aam.Env }

func (f joinFrame) FrameKey() string { return "join:" + f.env.Key() }

// --- StepEval -----------------------------------------------------------

func (s *Semantics) StepEval(e aam.Exp, env aam.Env, store aam.Store, t aam.Timestamp) []aam.Action {
	n, ok := e.(*Node)
	if !ok {
		return []aam.Action{aam.NewErrorAction(aam.SemanticError{Kind: aam.TypeError, Message: "not a testlat node"})}
	}
	eff := aam.NewEffectSet()
	switch n.Kind {
	case KInt:
		return []aam.Action{aam.NewReachedValue(IntVal(s.Mode, s.Bound, n.IntVal), store, eff)}

	case KBool:
		return []aam.Action{aam.NewReachedValue(BoolVal(s.Mode, s.Bound, n.BoolVal), store, eff)}

	case KVar:
		addr, ok := env.Lookup(n.Name)
		if !ok {
			return []aam.Action{aam.NewErrorAction(aam.SemanticError{Kind: aam.UnboundVariable, Message: string(n.Name)})}
		}
		v, ok := store.Lookup(addr)
		if !ok {
			v = s.bot()
		}
		return []aam.Action{aam.NewReachedValue(v, store, aam.NewEffectSet(aam.Effect{Kind: aam.ReadVar, Addr: addr}))}

	case KLambda:
		return []aam.Action{aam.NewReachedValue(ClosureVal(s.Mode, s.Bound, aam.Closure{Lambda: n, Env: env}), store, eff)}

	case KIf:
		return []aam.Action{aam.NewPush(ifFrame{then: n.Then, els: n.Else, env: env}, n.Cond, env, store, eff)}

	case KApp:
		return []aam.Action{aam.NewPush(appFrame{origExp: n, env: env, pending: n.Args}, n.Fn, env, store, eff)}

	case KLet:
		bind := n.Bindings[0]
		return []aam.Action{aam.NewPush(letFrame{name: bind.Name, body: n.Body, env: env}, bind.Value, env, store, eff)}

	case KLetrec:
		addr := s.Addr.Variable(n.Name, s.bot(), t)
		newEnv := env.Extend(n.Name, addr)
		return []aam.Action{aam.NewPush(letrecFrame{addr: addr, body: n.Body, env: newEnv}, n.ValueExpr, newEnv, store, eff)}

	case KBegin:
		if len(n.Seq) == 0 {
			return []aam.Action{aam.NewErrorAction(aam.SemanticError{Kind: aam.TypeError, Message: "empty begin"})}
		}
		if len(n.Seq) == 1 {
			return []aam.Action{aam.NewEval(n.Seq[0], env, store, eff)}
		}
		return []aam.Action{aam.NewPush(beginFrame{pending: n.Seq[1:], env: env}, n.Seq[0], env, store, eff)}

	case KSet:
		return []aam.Action{aam.NewPush(setFrame{name: n.Name, env: env}, n.ValueExpr, env, store, eff)}

	case KPrim:
		if len(n.Args) == 0 {
			return []aam.Action{aam.NewErrorAction(aam.SemanticError{Kind: aam.ArityError, Message: "prim " + n.Op + " needs at least one argument"})}
		}
		return []aam.Action{aam.NewPush(primFrame{op: n.Op, env: env, pending: n.Args[1:]}, n.Args[0], env, store, eff)}

	case KCreateActor:
		behavior, ok := s.Behaviors[n.BehaviorName]
		if !ok {
			return []aam.Action{aam.NewErrorAction(aam.SemanticError{Kind: aam.TypeError, Message: "unknown behavior " + n.BehaviorName})}
		}
		return []aam.Action{aam.NewCreate(behavior, n, env, eff)}

	case KSend:
		return []aam.Action{aam.NewPush(sendFrame{msgName: n.MsgName, env: env, pending: n.Args}, n.Target, env, store, eff)}

	case KPeek:
		return []aam.Action{aam.NewPush(peekFrame{env: env}, n.Target, env, store, eff)}

	case KSpawn:
		tid := aam.ThreadID{Address: s.Addr.Cell(n, t)}
		continuation := aam.NewReachedValue(aam.TidValue(tid), store, eff)
		return []aam.Action{aam.NewSpawn(tid, n.Body, env, store, continuation, eff)}

	case KJoin:
		return []aam.Action{aam.NewPush(joinFrame{env: env}, n.Target, env, store, eff)}

	default:
		return []aam.Action{aam.NewErrorAction(aam.SemanticError{Kind: aam.TypeError, Message: "unhandled node kind"})}
	}
}

// --- StepKont -----------------------------------------------------------

func (s *Semantics) StepKont(v aam.Value, frame aam.Frame, store aam.Store, t aam.Timestamp) []aam.Action {
	eff := aam.NewEffectSet()
	switch f := frame.(type) {
	case ifFrame:
		var actions []aam.Action
		if v.IsTrue() {
			actions = append(actions, aam.NewEval(f.then, f.env, store, eff))
		}
		if v.IsFalse() {
			actions = append(actions, aam.NewEval(f.els, f.env, store, eff))
		}
		return actions

	case appFrame:
		if f.fnVal == nil {
			if len(f.pending) == 0 {
				return s.applyClosures(f.origExp, v, nil, store, t)
			}
			return []aam.Action{aam.NewPush(appFrame{origExp: f.origExp, env: f.env, fnVal: v, pending: f.pending[1:]}, f.pending[0], f.env, store, eff)}
		}
		acc := append(append([]aam.Value{}, f.acc...), v)
		if len(f.pending) == 0 {
			return s.applyClosures(f.origExp, f.fnVal, acc, store, t)
		}
		return []aam.Action{aam.NewPush(appFrame{origExp: f.origExp, env: f.env, fnVal: f.fnVal, pending: f.pending[1:], acc: acc}, f.pending[0], f.env, store, eff)}

	case letFrame:
		addr := s.Addr.Variable(f.name, v, t)
		newEnv := f.env.Extend(f.name, addr)
		newStore := store.Extend(addr, v)
		return []aam.Action{aam.NewEval(f.body, newEnv, newStore, aam.NewEffectSet(aam.Effect{Kind: aam.WriteVar, Addr: addr}))}

	case letrecFrame:
		newStore := store.Extend(f.addr, v)
		return []aam.Action{aam.NewEval(f.body, f.env, newStore, aam.NewEffectSet(aam.Effect{Kind: aam.WriteVar, Addr: f.addr}))}

	case beginFrame:
		if len(f.pending) == 0 {
			return []aam.Action{aam.NewReachedValue(v, store, eff)}
		}
		if len(f.pending) == 1 {
			return []aam.Action{aam.NewEval(f.pending[0], f.env, store, eff)}
		}
		return []aam.Action{aam.NewPush(beginFrame{pending: f.pending[1:], env: f.env}, f.pending[0], f.env, store, eff)}

	case setFrame:
		addr, ok := f.env.Lookup(f.name)
		if !ok {
			return []aam.Action{aam.NewErrorAction(aam.SemanticError{Kind: aam.UnboundVariable, Message: string(f.name)})}
		}
		// Weak update: a set!-bound address may be shared by more than
		// one calling context once k-CFA collapses them, so join rather
		// than overwrite (spec.md §3 Store.Extend is the default; see
		// Overwrite in store.go for the singleton-cell exception).
		newStore := store.Extend(addr, v)
		return []aam.Action{aam.NewReachedValue(v, newStore, aam.NewEffectSet(aam.Effect{Kind: aam.WriteVar, Addr: addr}))}

	case primFrame:
		acc := append(append([]aam.Value{}, f.acc...), v)
		if len(f.pending) == 0 {
			return []aam.Action{s.applyOp(f.op, acc, store)}
		}
		return []aam.Action{aam.NewPush(primFrame{op: f.op, env: f.env, pending: f.pending[1:], acc: acc}, f.pending[0], f.env, store, eff)}

	case sendFrame:
		if f.targets == nil {
			pids := v.Pids()
			if len(pids) == 0 {
				return []aam.Action{aam.NewErrorAction(aam.SemanticError{Kind: aam.TypeError, Message: "send target is not an actor"})}
			}
			if len(f.pending) == 0 {
				return s.fanSend(pids, f.msgName, nil, store)
			}
			return []aam.Action{aam.NewPush(sendFrame{msgName: f.msgName, env: f.env, targets: pids, pending: f.pending[1:]}, f.pending[0], f.env, store, eff)}
		}
		acc := append(append([]aam.Value{}, f.acc...), v)
		if len(f.pending) == 0 {
			return s.fanSend(f.targets, f.msgName, acc, store)
		}
		return []aam.Action{aam.NewPush(sendFrame{msgName: f.msgName, env: f.env, targets: f.targets, pending: f.pending[1:], acc: acc}, f.pending[0], f.env, store, eff)}

	case joinFrame:
		tids := v.Tids()
		if len(tids) == 0 {
			return []aam.Action{aam.NewErrorAction(aam.SemanticError{Kind: aam.TypeError, Message: "join target is not a thread id"})}
		}
		actions := make([]aam.Action, 0, len(tids))
		for _, tid := range tids {
			actions = append(actions, aam.NewJoin(tid, store, eff))
		}
		return actions

	case peekFrame:
		pids := v.Pids()
		if len(pids) == 0 {
			return []aam.Action{aam.NewErrorAction(aam.SemanticError{Kind: aam.TypeError, Message: "peek target is not an actor"})}
		}
		var actions []aam.Action
		for _, pid := range pids {
			cell, ok := store.Lookup(pid.Address)
			if !ok {
				cell = s.bot()
			}
			actions = append(actions, aam.NewReachedValue(cell, store, eff))
		}
		return actions

	default:
		return []aam.Action{aam.NewErrorAction(aam.SemanticError{Kind: aam.TypeError, Message: "unhandled frame"})}
	}
}

func (s *Semantics) fanSend(pids []aam.PID, msgName string, args []aam.Value, store aam.Store) []aam.Action {
	msg := NewMsg(s.Mode, s.Bound, msgName, args)
	eff := aam.NewEffectSet()
	actions := make([]aam.Action, 0, len(pids))
	for _, pid := range pids {
		actions = append(actions, aam.NewSend(pid, msg, aam.NewReachedValue(BoolVal(s.Mode, s.Bound, true), store, eff), eff))
	}
	return actions
}

// applyClosures dispatches an application over every closure the
// function position's value may denote (spec.md §4.4: Semantics binds
// the closure's parameters itself, since Exp is opaque to the kernel).
// Prim values in fnVal are not applied.
func (s *Semantics) applyClosures(fexp *Node, fnVal aam.Value, argv []aam.Value, store aam.Store, t aam.Timestamp) []aam.Action {
	closures := fnVal.Closures()
	var actions []aam.Action
	for _, c := range closures {
		lam, ok := c.Lambda.(*Node)
		if !ok || lam.Kind != KLambda {
			continue
		}
		if len(lam.Params) != len(argv) {
			actions = append(actions, aam.NewErrorAction(aam.SemanticError{Kind: aam.ArityError, Message: "closure arity mismatch"}))
			continue
		}
		newEnv := c.Env
		newStore := store
		var effs []aam.Effect
		for i, p := range lam.Params {
			addr := s.Addr.Variable(p, argv[i], t)
			newEnv = newEnv.Extend(p, addr)
			newStore = newStore.Extend(addr, argv[i])
			effs = append(effs, aam.Effect{Kind: aam.WriteVar, Addr: addr})
		}
		actions = append(actions, aam.NewStepIn(fexp, c, lam.Body, newEnv, newStore, argv, aam.NewEffectSet(effs...)))
	}
	if len(closures) == 0 {
		actions = append(actions, aam.NewErrorAction(aam.SemanticError{Kind: aam.OperatorNotApplicable, Message: "applied value is not a procedure"}))
	}
	return actions
}

// applyOp dispatches a Prim node's operator directly onto the abstract
// Value lattice (UnaryOp/BinaryOp), rather than modeling primitives as
// first-class closures — this language never passes "+" itself as a
// value, so there is nothing for a Prim Value to add over calling
// UnaryOp/BinaryOp straight from the AST.
func (s *Semantics) applyOp(op string, args []aam.Value, store aam.Store) aam.Action {
	eff := aam.NewEffectSet()
	switch len(args) {
	case 1:
		v := args[0]
		switch op {
		case "not":
			return aam.NewReachedValue(v.UnaryOp(aam.OpNot), store, eff)
		case "neg":
			return aam.NewReachedValue(v.UnaryOp(aam.OpNeg), store, eff)
		case "zero?":
			return aam.NewReachedValue(v.BinaryOp(aam.OpNumEq, IntVal(s.Mode, s.Bound, 0)), store, eff)
		case "procedure?":
			return aam.NewReachedValue(v.UnaryOp(aam.OpIsProcedure), store, eff)
		}
	case 2:
		a, b := args[0], args[1]
		switch op {
		case "+":
			return aam.NewReachedValue(a.BinaryOp(aam.OpPlus, b), store, eff)
		case "-":
			return aam.NewReachedValue(a.BinaryOp(aam.OpMinus, b), store, eff)
		case "*":
			return aam.NewReachedValue(a.BinaryOp(aam.OpTimes, b), store, eff)
		case "/":
			return aam.NewReachedValue(a.BinaryOp(aam.OpDiv, b), store, eff)
		case "%":
			return aam.NewReachedValue(a.BinaryOp(aam.OpModulo, b), store, eff)
		case "<":
			return aam.NewReachedValue(a.BinaryOp(aam.OpLt, b), store, eff)
		case "=":
			return aam.NewReachedValue(a.BinaryOp(aam.OpNumEq, b), store, eff)
		case "eq?":
			return aam.NewReachedValue(a.BinaryOp(aam.OpEq, b), store, eff)
		}
	}
	return aam.NewErrorAction(aam.SemanticError{Kind: aam.OperatorNotApplicable, Message: "prim " + op + " arity/operator mismatch"})
}

// StepReceive dispatches an actor message by (behavior, message name)
// to a registered ReceiveFunc, falling back to the kernel's default
// MessageNotSupported behavior (spec.md §4.4/§4.7).
func (s *Semantics) StepReceive(self aam.PID, messageName string, args []aam.Value, behavior *aam.Behavior, env aam.Env, store aam.Store, t aam.Timestamp) []aam.Action {
	if err := aam.CheckArity(behavior, messageName, args); err != nil {
		return []aam.Action{aam.NewErrorAction(*err)}
	}
	handlers, ok := s.Receivers[behavior.Name]
	if !ok {
		return aam.DefaultStepReceive(self, messageName, args, behavior, env, store, t)
	}
	fn, ok := handlers[messageName]
	if !ok {
		return aam.DefaultStepReceive(self, messageName, args, behavior, env, store, t)
	}
	return fn(s, self, args, env, store, t)
}
