package sqlinline

const QCreateKVTable = `--sql 3c9b2f71-8d4e-4a6b-b0f2-5e7a91c4d823
create table if not exists studio_kv (
  key text primary key,
  value text not null,
  updated_at timestamptz not null default now()
);
`

const QSelectKV = `--sql 7e41a0d5-2b9c-4f83-8a16-c0d4e59b7f12
select value
from studio_kv
where key = $1::text
limit 1;
`

const QUpsertKV = `--sql a52d8e30-6f17-49c4-9b8e-13f7c2a6d095
insert into studio_kv (key, value, updated_at)
values ($1::text, $2::text, now())
on conflict (key) do update set
  value = excluded.value,
  updated_at = now();
`

const QDeleteKV = `--sql d8f36b19-0c72-4e5a-a3d1-9b4e07f2c6a8
delete from studio_kv
where key = $1::text;
`
