// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

// threadLocal is one thread's (Control, Kont) slice, the minimal shape
// needed to satisfy ThreadLocalState (spec.md §4.6). Also doubles as
// the "active" thread's slice on every per-variant State below.
type threadLocal struct {
	Control Control
	Kont    Kont
}

func (t threadLocal) Key() string  { return t.Control.Key() + "/" + t.Kont.Key() }
func (t threadLocal) Halted() bool { return !t.Control.IsEval() && isHaltKont(t.Kont) }
func (t threadLocal) FinalValue() Value {
	if t.Control.IsEval() {
		return nil
	}
	return t.Control.Val
}

// isHaltKont reports whether k has no frames left to pop (spec.md §3
// Invariant: the terminal continuation).
func isHaltKont(k Kont) bool {
	if k.Direct != nil {
		_, ok := k.Direct.Frame.(KontHalt)
		return ok
	}
	return k.Addr == HaltAddr
}

// AAMMachine is the classical AAM variant (spec.md §4.5): Store and
// KontStore travel inside every State, giving maximum precision at the
// cost of many distinct stores. Grounded on the teacher's Step/Suspend
// pair (step.go), generalized from a single delimited-continuation
// chain to the full CESK relation of spec.md §4.
type AAMMachine struct {
	Sem        Semantics
	AddrPolicy AddressPolicy
	TimePolicy TimestampPolicy
	// Counting enables abstract counting (spec.md glossary "Counting",
	// Config.Counting): the initial store strong-updates a cell instead
	// of joining into it whenever both values are known singletons.
	Counting bool

	// intern deduplicates structurally-equal Store values across every
	// successor state fold produces (store.go's internTable, spec.md
	// §4.5 "This gives maximum precision but many distinct stores"). A
	// zero-value AAMMachine (built via a plain struct literal, as most
	// tests do) leaves this nil, which internStore treats as "interning
	// disabled" — a missed deduplication, never a correctness issue.
	// NewAAMMachine is the only way to get a non-nil one.
	intern *internTable
}

// NewAAMMachine builds an AAMMachine with store interning enabled,
// bounded by internCapacity entries (<=0 disables interning, same as
// the zero-value AAMMachine{}).
func NewAAMMachine(sem Semantics, addrPolicy AddressPolicy, timePolicy TimestampPolicy, counting bool, internCapacity int) AAMMachine {
	m := AAMMachine{Sem: sem, AddrPolicy: addrPolicy, TimePolicy: timePolicy, Counting: counting}
	if internCapacity > 0 {
		m.intern = newInternTable(internCapacity)
	}
	return m
}

// internStore canonicalizes s against every structurally-equal Store
// fold has seen before, when interning is enabled.
func (m AAMMachine) internStore(s Store) Store {
	if m.intern == nil {
		return s
	}
	return m.intern.Intern(s)
}

// aamState is spec.md §3's State, concretized for the AAM variant:
// (active thread's Control/Kont, Store, KontStore, Timestamp), plus
// the concurrent and actor extensions of §4.6/§4.7.
type aamState struct {
	Self    ThreadID
	Active  threadLocal
	Store   Store
	Konts   KontStore
	T       Timestamp
	Threads ThreadPool
	Joined  JoinedSet
	Actors  ActorSystem
}

func (s aamState) Key() string {
	return s.Self.String() + "|" + s.Active.Key() + "|" + s.Store.Key() + "|" +
		s.Konts.Key() + "|" + s.T.String() + "|" + s.Threads.Key() + "|" +
		s.Joined.Key() + "|" + s.Actors.Key()
}

func (s aamState) Halted() bool {
	return s.Active.Halted() && len(s.Threads.AllThreads()) == 0
}

func (s aamState) FinalValue() Value { return s.Active.FinalValue() }

// Initial builds the single starting state: program evaluated in an
// empty environment, empty store, the terminal continuation (spec.md
// §4.5 "initial state").
func (m AAMMachine) Initial(program Exp) []MachineState {
	store := NewStore()
	if m.Counting {
		store = NewCountingStore()
	}
	s := aamState{
		Active:  threadLocal{Control: Eval(program, NewEnv()), Kont: HaltKont},
		Store:   store,
		Konts:   NewKontStore(),
		T:       m.TimePolicy.Zero(),
		Threads: NewThreadPool(),
		Joined:  NewJoinedSet(),
		Actors:  NewActorSystem(),
	}
	return []MachineState{s}
}

// Step explores every way s can advance: stepping its active thread,
// switching the active thread to another runnable one once the current
// one halts, and processing one pending actor message (spec.md §4.5
// reachability loop combined with §4.6/§4.7's scheduling choices).
func (m AAMMachine) Step(ms MachineState) []MachineState {
	s := ms.(aamState)
	var out []MachineState
	if !s.Active.Halted() {
		out = append(out, m.stepActive(s)...)
	} else if others := s.Threads.AllThreads(); len(others) > 0 {
		out = append(out, m.scheduleThread(s)...)
	}
	for _, asucc := range stepActorMessages(m.Sem, m.AddrPolicy, s.Store, s.T, s.Actors) {
		next := s
		next.Actors = asucc.Actors
		next.Store = asucc.Store
		out = append(out, next)
	}
	return out
}

// scheduleThread picks one other thread's local state and makes it
// active, leaving the previously-active thread's final slice in the
// pool so a later Join can still observe it (spec.md §4.6: "pick one
// active thread as the scheduling choice").
func (m AAMMachine) scheduleThread(s aamState) []MachineState {
	var out []MachineState
	for _, tid := range s.Threads.AllThreads() {
		for _, ls := range s.Threads.States(tid) {
			tl := ls.(threadLocal)
			next := s
			next.Threads = next.Threads.Install(s.Self, s.Active)
			next.Self = tid
			next.Active = tl
			out = append(out, next)
		}
	}
	return out
}

func (m AAMMachine) stepActive(s aamState) []MachineState {
	var out []MachineState
	if s.Active.Control.IsEval() {
		t := m.TimePolicy.Tick(s.T, s.Active.Control.Exp)
		actions := m.Sem.StepEval(s.Active.Control.Exp, s.Active.Control.Env, s.Store, t)
		for _, act := range actions {
			out = append(out, m.fold(s, act, t, s.Active.Kont)...)
		}
		return out
	}
	cells := s.Konts.Pop(s.Active.Kont)
	for _, c := range cells {
		if _, halt := c.Frame.(KontHalt); halt {
			continue
		}
		actions := m.Sem.StepKont(s.Active.Control.Val, c.Frame, s.Store, s.T)
		for _, act := range actions {
			out = append(out, m.fold(s, act, s.T, Kont{Addr: c.Tail})...)
		}
	}
	return out
}

// fold folds one Action produced by Semantics into a successor
// aamState, threading the tail continuation the caller already popped
// (spec.md §4.4/§4.5).
func (m AAMMachine) fold(s aamState, act Action, t Timestamp, tail Kont) []MachineState {
	switch act.Kind {
	case ActionReachedValue:
		next := s
		next.Store, next.T = m.internStore(act.Store), t
		next.Active = threadLocal{Control: KontControl(act.Value), Kont: tail}
		return []MachineState{next}

	case ActionPush:
		ak := m.AddrPolicy.Kont(act.Exp)
		newKonts, handle := s.Konts.Push(ak, act.PushFrame, tail)
		next := s
		next.Store, next.Konts, next.T = m.internStore(act.Store), newKonts, t
		next.Active = threadLocal{Control: Eval(act.Exp, act.Env), Kont: handle}
		return []MachineState{next}

	case ActionEval:
		next := s
		next.Store, next.T = m.internStore(act.Store), t
		next.Active = threadLocal{Control: Eval(act.Exp, act.Env), Kont: tail}
		return []MachineState{next}

	case ActionStepIn:
		next := s
		next.Store, next.T = m.internStore(act.Store), t
		next.Active = threadLocal{Control: Eval(act.Body, act.Env), Kont: tail}
		return []MachineState{next}

	case ActionError:
		next := s
		next.T = t
		next.Active = threadLocal{Control: KontControl(ErrorValue(act.Err)), Kont: HaltKont}
		return []MachineState{next}

	case ActionSpawn:
		next := s
		next.Store, next.T = m.internStore(act.Store), t
		next.Threads = next.Threads.Install(act.Tid, threadLocal{Control: Eval(act.Exp, act.Env), Kont: HaltKont})
		if act.Continuation != nil {
			return m.fold(next, *act.Continuation, t, tail)
		}
		return []MachineState{next}

	case ActionJoin:
		val, ok := s.Threads.Joinable(act.Tid)
		if !ok {
			return nil
		}
		next := s
		next.Store, next.T = m.internStore(act.Store), t
		next.Joined = next.Joined.Add(act.Tid)
		next.Active = threadLocal{Control: KontControl(val), Kont: tail}
		return []MachineState{next}

	case ActionSend:
		next := s
		next.T = t
		next.Actors = next.Actors.Send(act.PID, act.Msg)
		if act.Continuation != nil {
			return m.fold(next, *act.Continuation, t, tail)
		}
		return []MachineState{next}

	case ActionCreate:
		childPID := PID{m.AddrPolicy.Cell(act.CreateExp, t)}
		next := s
		next.T = t
		next.Actors = next.Actors.Create(childPID, act.Behavior, Eval(act.CreateExp, act.Env))
		next.Active = threadLocal{Control: KontControl(PIDValue(childPID)), Kont: tail}
		return []MachineState{next}

	case ActionBecome, ActionTerminate:
		// Only meaningful inside actor message processing
		// (stepActorMessages/foldActorAction); a thread's own
		// control flow never produces these (spec.md §4.7).
		return nil

	default:
		return nil
	}
}
