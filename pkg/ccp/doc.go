// Package ccp is a client for the CyberArk Central Credential Provider
// (CCP) REST retrieval endpoint. Applications registered in CyberArk fetch
// passwords and account metadata at runtime with an application ID instead
// of embedding secrets in configuration.
//
// A Client issues exactly one GET per call and surfaces exactly one typed
// outcome. There is no caching and no retry policy; callers branch on the
// error Category (IsTimeout, IsNotFound, ...) to decide remediation.
//
// Example:
//
//	client, err := ccp.New(ccp.Config{
//	    BaseURL: "https://ccp.example.com",
//	    AppID:   "billing-app",
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	password, err := client.GetPassword(ctx, ccp.Request{
//	    Safe:   ccp.String("Billing"),
//	    Object: ccp.String("postgres-prod"),
//	    Reason: ccp.String("nightly-invoice-run"),
//	})
//
// Search criteria are optional pointers so "not provided" and "explicitly
// false/zero" serialize differently: absent fields are never sent and the
// CCP's own defaults apply.
package ccp
