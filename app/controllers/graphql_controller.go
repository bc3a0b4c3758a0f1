package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/catalog/app/resources"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/bind"
	gql "github.com/shashiranjanraj/catalog/pkg/graphql"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

// errInternal replaces resolver errors so store details never reach clients.
var errInternal = errors.New("Internal server error")

// GraphQLController exposes the catalog read model as a GraphQL schema:
//
//	products: [Product!]!
//	product(code: String!): Product
type GraphQLController struct {
	schema graphql.Schema
}

func NewGraphQLController(getAll services.GetAllProducts, getByCode services.GetProductByCode) (*GraphQLController, error) {
	installment := graphql.NewObject(graphql.ObjectConfig{
		Name: "Installment",
		Fields: graphql.Fields{
			"value":  &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"period": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	price := graphql.NewObject(graphql.ObjectConfig{
		Name: "Price",
		Fields: graphql.Fields{
			"value":       &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"currency":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"installment": &graphql.Field{Type: graphql.NewNonNull(installment)},
			"validFrom":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"validTo":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	product := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"image":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"code":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"color":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"capacity":    &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"dimensions":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"features":    &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
			"energyClass": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"price":       &graphql.Field{Type: graphql.NewNonNull(price)},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(product))),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					out, err := getAll.Execute(p.Context)
					if err != nil {
						logger.WithCtx(p.Context).Error("graphql: products", logger.Err(err))
						return nil, errInternal
					}
					return resources.ToDTOList(out).Data, nil
				},
			},
			"product": &graphql.Field{
				Type: product,
				Args: graphql.FieldConfigArgument{
					"code": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					code, _ := p.Args["code"].(string)
					out, err := getByCode.Execute(p.Context, code)
					var nf *services.ProductNotFoundError
					switch {
					case errors.As(err, &nf):
						return nil, nil
					case err != nil:
						logger.WithCtx(p.Context).Error("graphql: product", "code", code, logger.Err(err))
						return nil, errInternal
					}
					return resources.NewProductDTO(out), nil
				},
			},
		},
	})

	schema, err := gql.NewSchema(query)
	if err != nil {
		return nil, fmt.Errorf("graphql schema: %w", err)
	}
	return &GraphQLController{schema: schema}, nil
}

// Query handles GET /graphql?query=... and POST /graphql with a JSON body.
func (c *GraphQLController) Query(w http.ResponseWriter, r *http.Request) error {
	var req gql.Request

	if r.Method == http.MethodGet {
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if v := q.Get("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
				return fmt.Errorf("%w: variables: %v", bind.ErrMalformedBody, err)
			}
		}
		if req.Query == "" {
			return &bind.ValidationError{Fields: map[string]string{"query": "The query field is required."}}
		}
	} else if err := bind.JSON(w, r, &req); err != nil {
		return err
	}

	response.JSON(w, http.StatusOK, gql.Execute(r.Context(), c.schema, req))
	return nil
}
