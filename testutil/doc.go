// Package testutil provides test doubles for the provider contract and a
// test HTTP server.
//
// FakeCaller is a provider.ProgressCaller driven by hand: each call is
// recorded with its descriptor and a FakeToken that counts cancellations,
// and the test decides when and how the call resolves.
//
//	caller := testutil.NewFakeCaller[string, int]()
//	rec := testutil.NewRecorder[int]()
//	sub := rx.New[string, int](caller).Request("a").Subscribe(rec.Observer())
//	caller.Last().Succeed(200)
//
// UploadServer is a gin-backed TestComponent for exercising httpclient
// against real HTTP/1.1 and h2c connections:
//
//	srv := testutil.NewUploadServer()
//	testutil.T(t).Setup(srv)
//	client, _ := httpclient.New(httpclient.Config{BaseURL: srv.URL()})
package testutil
