package wpilog

import (
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
)

// Parse decodes buf into a Log. Parsing is two passes over the records: the
// first builds each entry id's timeline of validity windows from control
// records, the second attributes data records to entries through those
// timelines. Records are ordered by emission, not by timestamp, so a single
// pass could attach a record to the wrong entry when entry ids are reused.
//
// Parse either returns a complete Log or the first error in scan order. With
// codec.PolicyFast, malformed input panics instead of returning an error.
func Parse(buf []byte, opts Options) (_ *Log, err error) {
	began := time.Now()
	logger := opts.logger()
	stats := Stats{Bytes: len(buf)}
	if opts.Observer != nil {
		defer func() {
			if r := recover(); r != nil {
				opts.Observer.ObserveParse(stats, time.Since(began), panicError(r))
				panic(r)
			}
			opts.Observer.ObserveParse(stats, time.Since(began), err)
		}()
	}

	dec := opts.Decoder
	hdr, off, err := dec.DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	logger.Debug("decoded header",
		slog.String("version", hdr.String()),
		slog.Int("metadata_bytes", len(hdr.Metadata)))

	f := dec.NewFramer(buf, off)

	c := newCorrelator(dec, logger)
	err = c.run(f)
	stats.Records = c.stats.Records
	stats.ControlRecords = c.stats.ControlRecords
	stats.DataRecords = c.stats.DataRecords
	stats.Entries = c.stats.Entries
	if err != nil {
		return nil, err
	}
	logger.Debug("correlated entries",
		slog.Int("records", stats.Records),
		slog.Int("entry_ids", len(c.timelines)),
		slog.Int("entries", stats.Entries))

	f.Reset()
	a := &assembler{
		dec:       dec,
		log:       logger,
		orphans:   opts.Orphans,
		timelines: c.timelines,
		stats:     &stats,
	}
	if err = a.run(f); err != nil {
		return nil, err
	}
	logger.Debug("assembled entries",
		slog.Int("data_records", stats.DataRecords),
		slog.Int("orphans", stats.Orphans))

	return &Log{
		header:  hdr,
		entries: c.entries,
		byName:  c.byName,
		stats:   stats,
	}, nil
}

// panicError turns a recovered panic value into the error reported to an
// Observer. Fast policy panics carry the *codec.DecodeError they wrap.
func panicError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return errors.Newf("panic during parse: %v", r)
}
