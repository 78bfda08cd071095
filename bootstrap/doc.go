// Package bootstrap is the deployment entry point of EduVerse. It prepares
// the resource search path, obtains the application object exactly once and
// hands it to whichever host runs it: the serverless function in api/ or the
// local development server started from main.
//
// Usage:
//
//	server, err := bootstrap.Application()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dev, err := bootstrap.NewDevServer(server, bootstrap.Default().Config(), bootstrap.Default().Logger())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := dev.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package bootstrap
