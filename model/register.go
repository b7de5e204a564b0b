/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package model

import "github.com/tomoncle/charstore/database"

// Register adds the charstore tables to the database model registry.
// Referenced tables get the lower priority so they are created first.
func Register() {
	database.RegisteredModel(database.NewModelAdapter((*Character)(nil), 10))
	database.RegisteredModel(database.NewModelAdapter((*Disposition)(nil), 20))
}

// Models returns the charstore tables in creation order.
func Models() []database.SQLModel {
	return []database.SQLModel{
		database.NewModelAdapter((*Character)(nil), 10),
		database.NewModelAdapter((*Disposition)(nil), 20),
	}
}
