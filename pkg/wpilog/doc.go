// Package wpilog assembles a decoded WPILOG data log into named entries.
//
// A log refers to entries through small integer entry ids that are reused
// over its lifetime: a Start control record binds an id to a name from its
// timestamp onwards, and a Finish (or another Start for the same id) ends
// that binding. Parse builds the complete timeline of these bindings before
// it attributes any data record, so attribution is correct even when
// independent producers emit records out of timestamp order.
//
// The resulting Log is read-only. Entry names, metadata and value payloads
// reference the parsed buffer; call Log.Clone to obtain a copy that does not.
//
//	log, err := wpilog.Parse(buf, wpilog.Options{})
//	if err != nil {
//	    return err
//	}
//	if e, ok := log.Entry("/drive/speed"); ok {
//	    for _, v := range e.Values() {
//	        fmt.Println(v.Timestamp, v.Payload)
//	    }
//	}
package wpilog
