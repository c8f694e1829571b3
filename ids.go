// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

// ThreadID identifies one thread of the concurrent extension (spec.md
// §4.6). Kept as a thin wrapper over Address so thread ids are
// allocated by the same AddressPolicy machinery (and therefore
// collapse/distinguish under the same rules) as any other address.
type ThreadID struct{ Address }

// PID identifies one actor of the actor extension (spec.md §4.7).
type PID struct{ Address }
