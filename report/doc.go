/*
Package report writes diagnostic results as CSV reports, one row per result,
with a header row of [types.Columns].

Report files are named after the UTC time of their creation, such as
"Hostname_results_2023-06-30_14-05-09_UTC.csv".
*/
package report
