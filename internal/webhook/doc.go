// Package webhook implements the inbound HTTP endpoint for Workspace event
// notifications.
//
// # Request Flow
//
//  1. HTTP POST arrives at /webhook with a JSON event body
//  2. Body size checked (reject with 413 if too large)
//  3. Event classified by its declared type; unknown types are acked with an
//     empty 200 and dropped
//  4. Verification events are answered with the signed challenge: the body
//     {"response": <challenge>} and an X-OUTBOUND-TOKEN header carrying
//     hex(HMAC-SHA256(secret, body))
//  5. message-created events are checked for the trigger keyword at position
//     0 of the content; non-matching messages are acked and dropped
//  6. Matching messages are acked with an empty 200, then the extracted
//     query is enqueued for asynchronous relay work
//
// The platform expects its synchronous ack within a short timeout, so
// everything past step 6 happens off the request/response cycle. A response
// is written exactly once per request, no matter which arm handles it.
//
// # Error Responses
//
// - 400 Bad Request: malformed JSON, or a verification event with no challenge
// - 413 Payload Too Large: body exceeds max_body_size
//
// Classification misses and trigger misses are not errors: they are acked
// with an empty 200 and no further work.
package webhook
