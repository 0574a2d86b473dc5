// Package trigger implements the entry point the hosting platform calls when
// a new object appears in storage.
//
// The primary components are:
// - BindingPath: the path pattern deciding which objects fire the trigger
// - Handler.Run: the function body, given an object stream and its name
// - Handler.HandleCloudEvent: adapts a Cloud Storage CloudEvent to Run
package trigger
