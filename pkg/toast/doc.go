// Package toast holds alerts for a browser whose page has not loaded yet.
//
// A handler that answers with a redirect cannot show an alert on the
// page that is going away. Instead it pushes a toast keyed by the
// browser's toast cookie, and the next live page for that browser shows
// it:
//
//	func deleteLink(w http.ResponseWriter, r *http.Request) {
//	    key := toast.Key(w, r)
//	    queue.Warning(key, "Deleted beta")
//	    http.Redirect(w, r, "/", http.StatusSeeOther)
//	}
//
//	// on the next connection
//	queue.Show(key, notifier)
package toast
