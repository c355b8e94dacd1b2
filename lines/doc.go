// Package lines reads delimiter-separated records from a file in fixed-size
// chunks.
//
// A Reader never loads the whole file. It reads chunkSize bytes at a time
// into a buffer, emits every record it can find, and keeps only the trailing
// partial record between reads, so peak memory is bounded by the longest
// record plus one chunk. Records need not align with chunk boundaries and
// the delimiter may be any non-empty byte sequence.
//
//	r, err := lines.Open(fsys, "access.log")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for {
//	    line, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(line)
//	}
//
// # Record Boundaries
//
// The delimiter is removed from every record. Consecutive delimiters yield
// empty records. A delimiter at the very end of the file does not produce a
// trailing empty record, so "a\nb" and "a\nb\n" both yield ["a", "b"], and
// an empty file yields nothing.
//
// # Errors
//
// Failures carry codes from the errors package:
//
//   - errors.CodeOpenFailed: the file is missing, unreadable, a directory,
//     or its handle cannot seek. The provider's cause is kept in the chain.
//   - errors.CodeDecodeFailed: one record is not valid in the configured
//     encoding. The record is consumed, so the next call moves on.
//   - errors.CodeReadFailed: the underlying read failed. The reader stays
//     in this state and returns the same error until closed.
//
// # Thread Safety
//
// A Reader is not safe for concurrent use. Open one reader per goroutine.
package lines
