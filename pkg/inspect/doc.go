// Package inspect is a development inspector for headless documents.
//
// An Inspector observes a component.Registry and records every commit in a
// bounded History together with an HTML snapshot of the host. Its HTTP API
// lists commits, serves the live tree, dispatches user events onto the
// scheduler loop and streams new commits over a websocket. With an Archiver
// configured, Run uploads each snapshot in the background; S3Archiver does
// so with the AWS SDK.
//
//	insp := inspect.New(doc, inspect.WithRegistry(reg))
//	reg.Observe(insp)
//	go insp.Run(ctx)
//	http.ListenAndServe(":7070", insp.Handler())
package inspect
