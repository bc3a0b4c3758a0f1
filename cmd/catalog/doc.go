// Command catalog runs and operates the product catalog.
//
//	catalog serve        # start the API (default)
//	catalog seed         # seed demo products into an empty store
//	catalog route:list   # list API routes
//	catalog browse       # fetch products from a running API and print them
//
// Configuration comes from .env and config/app.json, overridden by the
// process environment.
package main
