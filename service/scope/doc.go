// Package scope turns a named visibility rule (mine, team, review,
// otherDepartment) plus secondary filters into a single predicate over
// tasks. The historical dashboard carried one hand-rolled copy of this
// filtering per page variant; here it is one configurable component.
package scope
