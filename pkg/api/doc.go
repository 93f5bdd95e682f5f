// Package api exposes the catalog and the subscription ledger over HTTP.
//
// Routes:
//
//	POST   /magazines/                                  register a magazine (JSON body)
//	GET    /magazines/                                  list magazines
//	GET    /plans/                                      list plans
//	POST   /subscriptions/?user_id&magazine_id&plan_id  create a subscription
//	GET    /subscriptions/?user_id                      list active subscriptions
//	GET    /subscriptions/history?user_id&magazine_id   every record for the pair
//	PUT    /subscriptions/{id}?plan_id                  replace with a new plan
//	DELETE /subscriptions/{id}                          cancel
//	GET    /health/live, /health/ready                  probes
//
// Trailing slashes are optional. Successful responses are the bare JSON
// resource. Failures use
//
//	{"error": {"code": "...", "message": "...", "details": {"field": ["..."]}}}
//
// with 422 for validation failures and malformed IDs, 404 for unknown
// entities, 400 when an active subscription already exists and 500 otherwise.
package api
