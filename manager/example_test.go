package manager_test

import (
	"context"
	"fmt"

	"github.com/c360/writeflow/config"
	"github.com/c360/writeflow/manager"
	"github.com/c360/writeflow/writer"
)

// Example wires a manager with one relational-style adapter and issues a
// write. Real deployments register adapters such as sqlwriter or kvwriter
// instead of the inline handler used here.
func Example() {
	mysqlWriter := writer.NewBase("mysqlWriter", writer.MatchTargets("mysql.main"))
	if err := mysqlWriter.RegisterHandler(writer.NewHandler("user_profile_update",
		func(_ context.Context, req writer.Request) (writer.Result, error) {
			return writer.Result{Message: "profile updated"}, nil
		})); err != nil {
		panic(err)
	}

	m, err := manager.New(config.DefaultConfig())
	if err != nil {
		panic(err)
	}
	if err := m.Register(mysqlWriter); err != nil {
		panic(err)
	}

	res, err := m.Write(context.Background(), writer.Request{
		Target:  "mysql.main",
		Type:    "user_profile_update",
		Payload: map[string]any{"id": 1, "name": "A"},
		Meta:    map[string]string{"source": "example"},
	})
	if err != nil {
		panic(err)
	}

	fmt.Println(res.Success, res.Message)
	// Output: true profile updated
}
