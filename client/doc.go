/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

/*
Package client runs Cypher statements against a graph database's HTTP transaction
commit endpoint and reshapes the columnar response into records.

All statements passed to one Query call are sent in a single request to
{serviceRoot}/db/data/transaction/commit, so they are committed together or not at all.
The server answers with one result per statement, each an ordered list of column names
and a list of rows. Query turns every row into a Record keyed by column name.

	c := client.New("http://localhost:7474", "neo4j", "password")
	results, err := c.Query(ctx, []client.Statement{
		client.NewStatement("MATCH (p:Person) WHERE p.age > $age RETURN p.name AS name",
			map[string]interface{}{"age": 30}),
	})
	if err != nil {
		var qerr *client.QueryError
		if errors.As(err, &qerr) {
			// qerr.Errors holds the codes and messages reported by the server.
		}
		return err
	}
	for _, rec := range results[0].Records {
		name, _ := rec.GetString("name")
		fmt.Println(name)
	}

Numbers in results are decoded as json.Number so that large integer ids survive intact.
Use the Record accessors or Result.Unmarshal to convert them.
*/
package client
