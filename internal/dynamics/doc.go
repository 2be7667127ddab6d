// Package dynamics finds the time-varying quantities of a symbolic
// expression: functions of time alone, such as x(t), and their time
// derivatives of any order.
//
// A quantity qualifies only when its free symbols are exactly the time
// symbol, so f(t, y) and k*x(t) as a single node never do. Sums and
// products are containers and are never members of a result.
package dynamics
