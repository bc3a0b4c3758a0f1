package routes

import (
	"github.com/shashiranjanraj/catalog/app/controllers"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// RegisterAPI mounts the product REST routes and the GraphQL endpoint.
func RegisterAPI(r *router.Router, products *controllers.ProductController, gql *controllers.GraphQLController) {
	api := r.Group("/api")
	api.Get("/products", "products.index", products.Index)
	api.Get("/products/{code}", "products.show", products.Show)

	r.Get("/graphql", "graphql.query", gql.Query)
	r.Post("/graphql", "graphql.execute", gql.Query)
}
