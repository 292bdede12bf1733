// Package trackflow provides a task review workflow engine.
//
// Tasks carry a working status and an optional review block. The engine
// drives the review lifecycle (request, accept or decline, approve or
// reject, cancel), enforces who may modify a task at each step, serves
// scoped and paginated task listings, and journals every state change as an
// event.
//
// Trackflow is designed to be embedded in host applications. End-users
// typically interact via the high-level Service façade exposed by the root
// package:
//
//	srv, _ := trackflow.New()
//	engine := srv.Engine()
//	task, _ := engine.CreateTask(ctx, "u1", &review.TaskInput{Title: "draft brief"})
//	_, _ = engine.RequestReview(ctx, task.ID, "u1", "u3")
//	page, _ := srv.ListTasks(ctx, scope.Mine, "u1", nil, 0, 0)
//
// For more details see the README and individual sub-packages.
package trackflow
