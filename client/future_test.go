package client_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/kbukum/h2bridge/body"
	"github.com/kbukum/h2bridge/client"
)

func TestResponseFuture(t *testing.T) {
	fut := client.NewResponseFuture()
	if _, ok, _ := fut.Poll(); ok {
		t.Fatal("unresolved future reported ready")
	}

	want := &client.Response[*body.Incoming]{StatusCode: 204}
	fut.Resolve(want, nil)

	select {
	case <-fut.Done():
	default:
		t.Fatal("Done not closed after Resolve")
	}
	got, ok, err := fut.Poll()
	if !ok || err != nil || got != want {
		t.Fatalf("Poll = %v, %v, %v", got, ok, err)
	}
	if got, err := fut.Await(context.Background()); got != want || err != nil {
		t.Fatalf("Await = %v, %v", got, err)
	}
}

func TestResponseFuture_AwaitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.NewResponseFuture().Await(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestThen(t *testing.T) {
	fut := client.NewResponseFuture()
	fut.Resolve(&client.Response[*body.Incoming]{StatusCode: 201}, nil)

	mapped := client.Then[*client.Response[*body.Incoming]](fut, func(r *client.Response[*body.Incoming]) string {
		return strconv.Itoa(r.StatusCode)
	})
	got, err := mapped.Await(context.Background())
	if err != nil || got != "201" {
		t.Errorf("Await = %q, %v", got, err)
	}
}

func TestThen_PassesErrors(t *testing.T) {
	boom := errors.New("reset")
	fut := client.NewResponseFuture()
	fut.Resolve(nil, boom)

	called := false
	mapped := client.Then[*client.Response[*body.Incoming]](fut, func(*client.Response[*body.Incoming]) int {
		called = true
		return 1
	})
	if _, err := mapped.Await(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	if called {
		t.Error("mapping function called on error")
	}
}
