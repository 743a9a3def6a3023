// Package flare captures application log events and forwards them to an
// error-tracking store over HTTP.
//
// Quick start:
//
//	f, err := flare.New(
//	    flare.WithDSN("https://key@errors.example.com/42"),
//	    flare.WithService("checkout"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	f.NotifyError(err, "charge failed")
//
// Delivery failures never reach the caller: they are reported through the
// diagnostic log and the optional error callback, so a broken network stays
// invisible to the code paths that log. The Flare instance is safe for
// concurrent use. Create once, reuse across requests.
//
// Applications using logrus can attach every entry automatically:
//
//	logrus.AddHook(flare.NewHook(f))
package flare
