package ports

import "context"

// BrowserLauncher opens URLs in the user's browser
type BrowserLauncher interface {
	// Open starts the browser on url without waiting for it to exit
	Open(ctx context.Context, url string) error
}
