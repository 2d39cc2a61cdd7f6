/*
Package batch diagnoses a list of host checks using a fixed number of parallel
lanes.

The list of checks gets partitioned into contiguous slices, one per lane. Each
lane works through its slice strictly in order, pausing for a fixed delay
between consecutive diagnostics. This per-lane pause is what keeps the uptime
monitoring service from being flooded with probe requests: with N lanes and a
delay d there are never more than N probes per d.

All lanes run concurrently on a [workerpool.WorkerPool] sized to the number of
lanes. Each lane only ever writes to its own result slot; [Scheduler.Run] waits
for all lanes to finish and then concatenates the slots, so the result path
doesn't need any locking. The order of results across lanes carries no meaning.

# Lane Faults

A lane panicking while diagnosing a check is contained to that lane: the
remaining checks of the lane are not diagnosed anymore, but nevertheless yield
placeholder results carrying the fault, so that there is still exactly one
result per check. Other lanes are not affected.

# Progress

An optional observer, set using [WithObserver], gets notified whenever a lane
starts and finishes diagnosing a check. Observers are called from the lane
goroutines, so they must be safe for concurrent use.
*/
package batch
