// Package testutil provides fakes and helpers for testing code built on the
// client and body packages: a scripted transport sender, scripted buffer
// streams, a payload recorder, and an h2c test server.
//
//	sender := testutil.NewScriptedSender[*body.Chunks](testutil.ScriptedResponse{
//	    StatusCode: 200,
//	    Chunks:     []string{"xy", "z"},
//	})
//	conn := client.NewConnection[*body.Chunks](sender)
package testutil
